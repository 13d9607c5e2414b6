// Package output formats rendered messages and generated code for the
// terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/promptgen/internal/config"
	"github.com/mark3labs/promptgen/prompt"
)

const (
	defaultWidth = 80
	maxWidth     = 120
)

// Options tunes formatting.
type Options struct {
	Width int // wrap width for markdown; capped at 120
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{config.FormatText, config.FormatJSON, config.FormatMarkdown, config.FormatOpenAI}
}

// Write renders messages to w in the given format.
func Write(w io.Writer, format string, messages []prompt.Message, opts Options) error {
	switch format {
	case config.FormatText, "":
		return writeText(w, messages)
	case config.FormatJSON:
		return writeJSON(w, messages)
	case config.FormatMarkdown:
		return writeMarkdown(w, messages, opts.Width)
	case config.FormatOpenAI:
		return writeJSON(w, ToOpenAI(messages))
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

func writeText(w io.Writer, messages []prompt.Message) error {
	roleStyle := lipgloss.NewStyle().Foreground(colorRole).Bold(true)
	cw := newWriter(w)
	for i, msg := range messages {
		if i > 0 {
			if _, err := fmt.Fprintln(cw); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(cw, "%s\n%s\n", roleStyle.Render(strings.ToUpper(msg.Role.String())), msg.Content); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Markdown returns messages as a markdown document, one section per message.
func Markdown(messages []prompt.Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n%s\n", msg.Role.Title(), msg.Content))
	}
	return sb.String()
}

func writeMarkdown(w io.Writer, messages []prompt.Message, width int) error {
	_, err := fmt.Fprintln(newWriter(w), renderMarkdown(Markdown(messages), width))
	return err
}

// renderMarkdown renders markdown with glamour, falling back to the raw text.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if width > maxWidth {
		width = maxWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSuffix(rendered, "\n")
}
