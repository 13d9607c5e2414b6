package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/prompt"
)

// DefaultTimeout bounds requests made without a context deadline.
const DefaultTimeout = 5 * time.Second

// RemoteError is an error reply from the render service. It matches the
// local sentinel for its code under errors.Is.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case CodeNotFound:
		return target == catalog.ErrNotFound
	case CodeMissingVariable:
		return target == prompt.ErrMissingVariable
	case CodeArity:
		return target == prompt.ErrArity
	}
	return false
}

// Client sends render and schema requests to a Service.
type Client struct {
	nc     *nats.Conn
	prefix string
}

// NewClient creates a client on nc. An empty prefix uses DefaultPrefix.
func NewClient(nc *nats.Conn, prefix string) *Client {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Client{nc: nc, prefix: prefix}
}

// Render asks the service to render set.
func (c *Client) Render(ctx context.Context, set string, req RenderRequest) ([]prompt.Message, error) {
	var reply RenderReply
	if err := c.request(ctx, RenderSubject(c.prefix, set), req, &reply); err != nil {
		return nil, err
	}
	if reply.Code != "" {
		return nil, &RemoteError{Code: reply.Code, Message: reply.Error}
	}
	return reply.Messages, nil
}

// Schema asks the service for the fields of set.
func (c *Client) Schema(ctx context.Context, set string) (*SchemaReply, error) {
	var reply SchemaReply
	if err := c.request(ctx, SchemaSubject(c.prefix, set), nil, &reply); err != nil {
		return nil, err
	}
	if reply.Code != "" {
		return nil, &RemoteError{Code: reply.Code, Message: reply.Error}
	}
	return &reply, nil
}

func (c *Client) request(ctx context.Context, subject string, body any, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	msg, err := c.nc.RequestWithContext(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("failed to decode reply from %s: %w", subject, err)
	}
	return nil
}
