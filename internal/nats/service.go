package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/prompt"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "promptgen"

// Error codes carried in replies.
const (
	CodeNotFound        = "not_found"
	CodeBadRequest      = "bad_request"
	CodeMissingVariable = "missing_variable"
	CodeArity           = "arity"
)

// RenderSubject returns the request subject for rendering set.
// Example: "promptgen.render.translate"
func RenderSubject(prefix, set string) string {
	return prefix + ".render." + set
}

// SchemaSubject returns the request subject for the schema of set.
// Example: "promptgen.schema.translate"
func SchemaSubject(prefix, set string) string {
	return prefix + ".schema." + set
}

// RenderRequest is the body of a render request. When Values is set the
// values are bound positionally; otherwise Fields is used.
type RenderRequest struct {
	Fields map[string]string `json:"fields,omitempty"`
	Values []string          `json:"values"`
}

// RenderReply is the body of a render reply.
type RenderReply struct {
	Messages []prompt.Message `json:"messages,omitempty"`
	Error    string           `json:"error,omitempty"`
	Code     string           `json:"code,omitempty"`
}

// SchemaReply is the body of a schema reply.
type SchemaReply struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields,omitempty"`
	Error       string   `json:"error,omitempty"`
	Code        string   `json:"code,omitempty"`
}

// ErrorCode maps an error to its reply code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, prompt.ErrMissingVariable):
		return CodeMissingVariable
	case errors.Is(err, prompt.ErrArity):
		return CodeArity
	default:
		return CodeBadRequest
	}
}

// Service answers render and schema requests for a catalog.
type Service struct {
	nc      *nats.Conn
	catalog *catalog.Catalog
	prefix  string
	events  *EventLog
	subs    []*nats.Subscription
	mu      sync.Mutex
}

// NewService creates a service for cat on nc. An empty prefix uses
// DefaultPrefix. Events, when non-nil, records every successful render.
func NewService(nc *nats.Conn, cat *catalog.Catalog, prefix string, events *EventLog) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Service{
		nc:      nc,
		catalog: cat,
		prefix:  prefix,
		events:  events,
	}
}

// Start subscribes to the render and schema subjects.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) > 0 {
		return fmt.Errorf("service already started")
	}

	renderSub, err := s.nc.Subscribe(RenderSubject(s.prefix, "*"), s.handleRender)
	if err != nil {
		return fmt.Errorf("failed to subscribe to render requests: %w", err)
	}
	schemaSub, err := s.nc.Subscribe(SchemaSubject(s.prefix, "*"), s.handleSchema)
	if err != nil {
		_ = renderSub.Unsubscribe()
		return fmt.Errorf("failed to subscribe to schema requests: %w", err)
	}
	s.subs = []*nats.Subscription{renderSub, schemaSub}

	// Flush so the subscriptions are registered before callers send requests.
	if err := s.nc.Flush(); err != nil {
		return fmt.Errorf("failed to flush subscriptions: %w", err)
	}

	logger.Info("NATS render service listening on %s", RenderSubject(s.prefix, "*"))
	return nil
}

// Stop removes the subscriptions.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, err)
		}
	}
	s.subs = nil
	return errors.Join(errs...)
}

// Prefix returns the subject prefix the service answers on.
func (s *Service) Prefix() string {
	return s.prefix
}

func (s *Service) setName(subject, kind string) string {
	return strings.TrimPrefix(subject, s.prefix+"."+kind+".")
}

func (s *Service) handleRender(msg *nats.Msg) {
	set := s.setName(msg.Subject, "render")
	reply := s.render(set, msg.Data)
	s.respond(msg, reply)
}

func (s *Service) render(set string, data []byte) RenderReply {
	var req RenderRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return RenderReply{Error: fmt.Sprintf("invalid request: %v", err), Code: CodeBadRequest}
		}
	}

	compiled, err := s.catalog.Compile(set)
	if err != nil {
		return RenderReply{Error: err.Error(), Code: ErrorCode(err)}
	}

	fields := req.Fields
	if req.Values != nil {
		fields, err = compiled.Bind(req.Values...)
		if err != nil {
			return RenderReply{Error: err.Error(), Code: ErrorCode(err)}
		}
	}

	messages, err := compiled.Render(fields)
	if err != nil {
		return RenderReply{Error: err.Error(), Code: ErrorCode(err)}
	}

	logger.Debug("Rendered %s over NATS: %d messages", set, len(messages))
	if s.events != nil {
		event := RenderEvent{Set: set, Fields: fields, Messages: len(messages)}
		if err := s.events.Record(context.Background(), event); err != nil {
			logger.Warn("Failed to record render event for %s: %v", set, err)
		}
	}
	return RenderReply{Messages: messages}
}

func (s *Service) handleSchema(msg *nats.Msg) {
	set := s.setName(msg.Subject, "schema")

	def, err := s.catalog.Definition(set)
	if err != nil {
		s.respond(msg, SchemaReply{Error: err.Error(), Code: ErrorCode(err)})
		return
	}
	compiled, err := s.catalog.Compile(set)
	if err != nil {
		s.respond(msg, SchemaReply{Error: err.Error(), Code: ErrorCode(err)})
		return
	}

	s.respond(msg, SchemaReply{
		Name:        def.Name,
		Description: def.Description,
		Fields:      compiled.Fields(),
	})
}

func (s *Service) respond(msg *nats.Msg, reply any) {
	data, err := json.Marshal(reply)
	if err != nil {
		logger.Error("Failed to marshal reply for %s: %v", msg.Subject, err)
		return
	}
	if err := msg.Respond(data); err != nil {
		logger.Warn("Failed to respond on %s: %v", msg.Subject, err)
	}
}
