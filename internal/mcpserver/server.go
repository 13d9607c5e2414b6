// Package mcpserver exposes the template catalog over the Model Context
// Protocol: one prompt per template set plus list and render tools.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
)

// DefaultAddr binds to a random port on the loopback interface.
const DefaultAddr = "127.0.0.1:0"

// Server manages an embedded MCP HTTP server backed by a template catalog.
type Server struct {
	catalog    *catalog.Catalog
	version    string
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server // Standard HTTP server that uses the listener
	addr       string       // resolved listen address
	mu         sync.Mutex
}

// New creates a new MCP server for cat. The server is not started until
// Start is called.
func New(cat *catalog.Catalog, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{
		catalog: cat,
		version: version,
	}
}

// build creates the MCP server and registers prompts and tools.
func (s *Server) build() (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"promptgen",
		s.version,
		server.WithPromptCapabilities(true),
		server.WithToolCapabilities(true),
	)

	if err := s.registerPrompts(mcpServer); err != nil {
		return nil, fmt.Errorf("failed to register prompts: %w", err)
	}
	s.registerTools(mcpServer)
	return mcpServer, nil
}

// Start starts the MCP HTTP server on addr; an empty addr or a zero port
// picks a free port. Returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = DefaultAddr
	}

	mcpServer, err := s.build()
	if err != nil {
		return 0, err
	}
	s.mcpServer = mcpServer

	// Listen first and hand the listener to Serve to avoid a port race.
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	tcpAddr := listener.Addr().(*net.TCPAddr)
	s.addr = tcpAddr.String()

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on %s", s.addr)

	// Capture stdServer for the goroutine to avoid a race with Stop.
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on %s with %d prompts", s.addr, s.catalog.Len())
	return tcpAddr.Port, nil
}

// Stop stops the MCP HTTP server and cleans up resources.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil // Already stopped
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://%s/mcp", s.addr)
}
