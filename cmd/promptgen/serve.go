package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/internal/mcpserver"
	"github.com/mark3labs/promptgen/internal/nats"
)

var serveFlags struct {
	mcp      bool
	nats     bool
	mcpAddr  string
	natsURL  string
	natsAddr string
	prefix   string
	storeDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve template sets over MCP and NATS",
	Long: `Serve the template catalog until interrupted.

The MCP server (on by default) exposes every set as an MCP prompt plus the
list-template-sets and render-template-set tools over streamable HTTP.

With --nats, a render service answers requests on <prefix>.render.<set>
and <prefix>.schema.<set>. It connects to --nats-url when given; otherwise
it starts an embedded NATS server on --nats-addr. --store-dir enables
JetStream on the embedded server and records every render.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.mcp, "mcp", true, "Serve MCP over HTTP")
	serveCmd.Flags().BoolVar(&serveFlags.nats, "nats", false, "Serve the NATS render service")
	serveCmd.Flags().StringVar(&serveFlags.mcpAddr, "mcp-addr", "", "MCP listen address (default: mcp_addr config)")
	serveCmd.Flags().StringVar(&serveFlags.natsURL, "nats-url", "", "External NATS server URL (default: nats_url config)")
	serveCmd.Flags().StringVar(&serveFlags.natsAddr, "nats-addr", "", "Embedded NATS listen address (default: nats_addr config)")
	serveCmd.Flags().StringVar(&serveFlags.prefix, "prefix", "", "NATS subject prefix (default: nats_prefix config)")
	serveCmd.Flags().StringVar(&serveFlags.storeDir, "store-dir", "", "JetStream directory for render history (default: nats_store_dir config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if !serveFlags.mcp && !serveFlags.nats {
		return fmt.Errorf("nothing to serve\n\nEnable --mcp or --nats")
	}

	applyServeConfig(cmd)

	cat, err := openCatalog()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	if serveFlags.mcp {
		srv := mcpserver.New(cat, version)
		if _, err := srv.Start(ctx, serveFlags.mcpAddr); err != nil {
			return fmt.Errorf("failed to start MCP server: %w", err)
		}
		defer func() {
			if err := srv.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Error stopping MCP server: %v\n", err)
			}
		}()
		fmt.Fprintf(out, "MCP server: %s (%d prompts)\n", srv.URL(), cat.Len())
	}

	if serveFlags.nats {
		cleanup, err := startNATSService(ctx, cat)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	fmt.Fprintln(out, "Press Ctrl+C to stop")
	<-ctx.Done()
	fmt.Fprintln(out, "\nShutting down gracefully...")
	return nil
}

// applyServeConfig fills unset flags from configuration.
func applyServeConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("mcp-addr") {
		serveFlags.mcpAddr = cfg.MCPAddr
	}
	if !cmd.Flags().Changed("nats-url") {
		serveFlags.natsURL = cfg.NATSURL
	}
	if !cmd.Flags().Changed("nats-addr") {
		serveFlags.natsAddr = cfg.NATSAddr
	}
	if !cmd.Flags().Changed("prefix") {
		serveFlags.prefix = cfg.NATSPrefix
	}
	if !cmd.Flags().Changed("store-dir") {
		serveFlags.storeDir = cfg.NATSStore
	}
}

// startNATSService connects to NATS and starts the render service. The
// returned function stops everything that was started.
func startNATSService(ctx context.Context, cat *catalog.Catalog) (func(), error) {
	var (
		ns  *natsserver.Server
		nc  *natsgo.Conn
		err error
	)

	if serveFlags.natsURL != "" {
		nc, err = nats.Connect(serveFlags.natsURL)
		if err != nil {
			return nil, err
		}
	} else {
		ns, err = nats.StartEmbeddedNATS(serveFlags.natsAddr, serveFlags.storeDir)
		if err != nil {
			return nil, fmt.Errorf("failed to start NATS server: %w", err)
		}
		nc, err = nats.ConnectInProcess(ns)
		if err != nil {
			_ = nats.Shutdown(nil, ns)
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
	}

	var events *nats.EventLog
	if serveFlags.storeDir != "" {
		js, err := nats.CreateJetStream(nc)
		if err == nil {
			events, err = nats.NewEventLog(ctx, js, serveFlags.prefix)
		}
		if err != nil {
			_ = nats.Shutdown(nc, ns)
			return nil, fmt.Errorf("failed to open render history: %w", err)
		}
	}

	svc := nats.NewService(nc, cat, serveFlags.prefix, events)
	if err := svc.Start(); err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, err
	}

	where := "in-process"
	if serveFlags.natsURL != "" {
		where = serveFlags.natsURL
	} else if ns != nil && ns.Addr() != nil {
		where = ns.ClientURL()
	}
	fmt.Printf("NATS render service: %s on %s\n", nats.RenderSubject(svc.Prefix(), "<set>"), where)

	return func() {
		if err := svc.Stop(); err != nil && !errors.Is(err, natsgo.ErrConnectionClosed) {
			logger.Warn("Error stopping render service: %v", err)
		}
		if err := nats.Shutdown(nc, ns); err != nil {
			fmt.Fprintf(os.Stderr, "Error during NATS shutdown: %v\n", err)
		}
	}, nil
}
