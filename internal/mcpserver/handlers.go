package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/prompt"
)

// SetInfo describes one template set in the list-template-sets result.
type SetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
}

// registerPrompts adds one MCP prompt per catalog set. Every schema field is
// a required argument.
func (s *Server) registerPrompts(mcpServer *server.MCPServer) error {
	for _, def := range s.catalog.Definitions() {
		compiled, err := s.catalog.Compile(def.Name)
		if err != nil {
			return err
		}

		opts := []mcp.PromptOption{mcp.WithPromptDescription(def.Description)}
		for _, field := range compiled.Fields() {
			opts = append(opts, mcp.WithArgument(field,
				mcp.ArgumentDescription(fmt.Sprintf("Value for {%s}", field)),
				mcp.RequiredArgument(),
			))
		}

		mcpServer.AddPrompt(mcp.NewPrompt(def.Name, opts...), s.promptHandler(def.Name, def.Description))
	}
	return nil
}

// promptHandler renders the named set from the prompt arguments.
func (s *Server) promptHandler(name, description string) server.PromptHandlerFunc {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		compiled, err := s.catalog.Compile(name)
		if err != nil {
			return nil, err
		}

		messages, err := compiled.Render(request.Params.Arguments)
		if err != nil {
			logger.Debug("Prompt %s render failed: %v", name, err)
			return nil, err
		}

		return mcp.NewGetPromptResult(description, toPromptMessages(messages)), nil
	}
}

// toPromptMessages converts rendered messages to MCP prompt messages. MCP
// prompts carry only user and assistant roles; system messages are sent as
// user messages.
func toPromptMessages(messages []prompt.Message) []mcp.PromptMessage {
	result := make([]mcp.PromptMessage, 0, len(messages))
	for _, msg := range messages {
		role := mcp.RoleUser
		if msg.Role == prompt.RoleAssistant {
			role = mcp.RoleAssistant
		}
		result = append(result, mcp.NewPromptMessage(role, mcp.NewTextContent(msg.Content)))
	}
	return result
}

// registerTools registers the list-template-sets and render-template-set
// tools.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list-template-sets",
			mcp.WithDescription("List the available prompt template sets and their fields"),
		),
		s.handleListSets,
	)

	mcpServer.AddTool(
		mcp.NewTool("render-template-set",
			mcp.WithDescription("Render a prompt template set into role-tagged messages"),
			mcp.WithString("set", mcp.Required(),
				mcp.Description("Name of the template set"),
			),
			mcp.WithObject("fields",
				mcp.Description("Placeholder values keyed by variable name"),
				mcp.AdditionalProperties(map[string]any{"type": "string"}),
			),
		),
		s.handleRenderSet,
	)
}

// handleListSets returns every set with its schema as JSON.
func (s *Server) handleListSets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := make([]SetInfo, 0, s.catalog.Len())
	for _, def := range s.catalog.Definitions() {
		compiled, err := s.catalog.Compile(def.Name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
		}
		infos = append(infos, SetInfo{
			Name:        def.Name,
			Description: def.Description,
			Fields:      compiled.Fields(),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: failed to encode sets: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleRenderSet renders a set. Lookup and render failures are reported as
// tool errors.
func (s *Server) handleRenderSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("error: no arguments provided"), nil
	}

	name, ok := args["set"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("error: missing 'set' parameter"), nil
	}

	fields, err := stringMap(args["fields"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	compiled, err := s.catalog.Compile(name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("error: unknown template set %q", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	messages, err := compiled.Render(fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: failed to encode messages: %v", err)), nil
	}
	logger.Debug("Rendered %s via MCP tool: %d messages", name, len(messages))
	return mcp.NewToolResultText(string(data)), nil
}

// stringMap converts a JSON object argument to a string map. Numbers and
// booleans are formatted; nested values are rejected.
func stringMap(raw any) (map[string]string, error) {
	if raw == nil {
		return map[string]string{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'fields' is not an object")
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			fields[k] = v
		case float64, bool:
			fields[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("field %q must be a string", k)
		}
	}
	return fields, nil
}
