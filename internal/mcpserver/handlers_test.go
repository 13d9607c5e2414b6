package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/prompt"
)

// setupTestServer creates a server over a small in-memory catalog.
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	cat := catalog.New([]*catalog.Definition{
		{
			Name:        "translate",
			Description: "Translate text",
			Messages: []prompt.Source{
				{Role: prompt.RoleSystem, Content: "translate {a} to {b}."},
				{Role: prompt.RoleUser, Content: "{text}"},
			},
		},
		{
			Name: "continue",
			Messages: []prompt.Source{
				{Role: prompt.RoleUser, Content: "Finish: {start}"},
				{Role: prompt.RoleAssistant, Content: "{start}"},
			},
		},
	})
	return New(cat, "test")
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func renderRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "render-template-set",
			Arguments: args,
		},
	}
}

func TestHandleListSets(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleListSets(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListSets returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}

	var infos []SetInfo
	if err := json.Unmarshal([]byte(extractText(result)), &infos); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(infos))
	}
	if infos[0].Name != "continue" || infos[1].Name != "translate" {
		t.Errorf("unexpected order: %+v", infos)
	}
	if got := strings.Join(infos[1].Fields, ","); got != "a,b,text" {
		t.Errorf("expected fields a,b,text, got %s", got)
	}
}

func TestHandleRenderSet_Success(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleRenderSet(context.Background(), renderRequest(map[string]any{
		"set": "translate",
		"fields": map[string]any{
			"a":    "French",
			"b":    "English",
			"text": "Hello",
		},
	}))
	if err != nil {
		t.Fatalf("handleRenderSet returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}

	var messages []prompt.Message
	if err := json.Unmarshal([]byte(extractText(result)), &messages); err != nil {
		t.Fatalf("failed to decode messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != prompt.RoleSystem || messages[0].Content != "translate French to English." {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != prompt.RoleUser || messages[1].Content != "Hello" {
		t.Errorf("unexpected second message: %+v", messages[1])
	}
}

func TestHandleRenderSet_Errors(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "no arguments", args: nil, want: "no arguments"},
		{name: "missing set", args: map[string]any{"fields": map[string]any{}}, want: "missing 'set'"},
		{name: "unknown set", args: map[string]any{"set": "nope"}, want: `unknown template set "nope"`},
		{name: "fields not object", args: map[string]any{"set": "translate", "fields": "x"}, want: "not an object"},
		{name: "nested field", args: map[string]any{"set": "translate", "fields": map[string]any{"a": []any{"x"}}}, want: `field "a"`},
		{
			name: "missing variable",
			args: map[string]any{"set": "translate", "fields": map[string]any{"a": "French", "text": "Hi"}},
			want: `missing variable "b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handleRenderSet(context.Background(), renderRequest(tt.args))
			if err != nil {
				t.Fatalf("expected tool error, got transport error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected IsError, got %s", extractText(result))
			}
			if text := extractText(result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in %q", tt.want, text)
			}
		})
	}
}

func TestStringMap(t *testing.T) {
	fields, err := stringMap(map[string]any{"n": float64(3), "ok": true, "s": "x"})
	if err != nil {
		t.Fatalf("stringMap returned error: %v", err)
	}
	if fields["n"] != "3" || fields["ok"] != "true" || fields["s"] != "x" {
		t.Errorf("unexpected fields: %v", fields)
	}

	fields, err = stringMap(nil)
	if err != nil || len(fields) != 0 {
		t.Errorf("expected empty map, got %v, %v", fields, err)
	}
}

func TestPromptHandler(t *testing.T) {
	srv := setupTestServer(t)
	handler := srv.promptHandler("translate", "Translate text")

	req := mcp.GetPromptRequest{}
	req.Params.Name = "translate"
	req.Params.Arguments = map[string]string{"a": "French", "b": "English", "text": "Hello"}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("prompt handler returned error: %v", err)
	}
	if result.Description != "Translate text" {
		t.Errorf("unexpected description: %q", result.Description)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	// System messages are delivered with the user role.
	if result.Messages[0].Role != mcp.RoleUser {
		t.Errorf("expected user role, got %s", result.Messages[0].Role)
	}
	text, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok || text.Text != "translate French to English." {
		t.Errorf("unexpected content: %#v", result.Messages[0].Content)
	}
}

func TestPromptHandler_MissingArgument(t *testing.T) {
	srv := setupTestServer(t)
	handler := srv.promptHandler("translate", "")

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"a": "French"}

	_, err := handler(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for missing argument")
	}
	if !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("expected missing b, got %v", err)
	}
}

func TestToPromptMessages(t *testing.T) {
	messages := toPromptMessages([]prompt.Message{
		{Role: prompt.RoleSystem, Content: "s"},
		{Role: prompt.RoleUser, Content: "u"},
		{Role: prompt.RoleAssistant, Content: "a"},
	})
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	want := []mcp.Role{mcp.RoleUser, mcp.RoleUser, mcp.RoleAssistant}
	for i, msg := range messages {
		if msg.Role != want[i] {
			t.Errorf("message %d: expected role %s, got %s", i, want[i], msg.Role)
		}
	}
}
