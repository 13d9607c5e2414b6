package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/form"
	"github.com/mark3labs/promptgen/internal/output"
	"github.com/mark3labs/promptgen/prompt"
)

var renderFlags struct {
	vars        []string
	interactive bool
	format      string
	width       int
}

var renderCmd = &cobra.Command{
	Use:   "render <set-or-file> [values...]",
	Short: "Render a template set",
	Long: `Render a template set into role-tagged messages.

Values are given positionally, in schema order (see 'promptgen inspect'),
or by name with --var name=value. A value of @path reads the file at path;
@- reads standard input. --interactive prompts for each field.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderFlags.vars, "var", nil, "Field value as name=value (repeatable)")
	renderCmd.Flags().BoolVarP(&renderFlags.interactive, "interactive", "i", false, "Prompt for field values")
	renderCmd.Flags().StringVarP(&renderFlags.format, "format", "f", "", "Output format: text, json, markdown, openai (default: format config)")
	renderCmd.Flags().IntVarP(&renderFlags.width, "width", "w", 0, "Wrap width for markdown output")
}

func runRender(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	def, compiled, err := resolveSet(cat, args[0])
	if err != nil {
		return err
	}

	values := args[1:]
	if len(values) > 0 && len(renderFlags.vars) > 0 {
		return fmt.Errorf("use either positional values or --var, not both")
	}

	stdin := cmd.InOrStdin()
	var messages []prompt.Message
	switch {
	case renderFlags.interactive:
		initial, err := parseVars(renderFlags.vars, stdin)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			initial, err = compiled.Bind(values...)
			if err != nil {
				return err
			}
		}
		fields, err := form.Run("Render "+def.Name, compiled.Fields(), initial)
		if err != nil {
			return err
		}
		messages, err = compiled.Render(fields)
		if err != nil {
			return err
		}

	case len(renderFlags.vars) > 0:
		fields, err := parseVars(renderFlags.vars, stdin)
		if err != nil {
			return err
		}
		messages, err = compiled.Render(fields)
		if err != nil {
			return err
		}

	default:
		resolved := make([]string, len(values))
		for i, v := range values {
			resolved[i], err = readValue(v, stdin)
			if err != nil {
				return err
			}
		}
		messages, err = compiled.Make(resolved...)
		if err != nil {
			return fmt.Errorf("%w\n\nFields in order: %s", err, strings.Join(compiled.Fields(), ", "))
		}
	}

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format = renderFlags.format
	}
	return output.Write(cmd.OutOrStdout(), format, messages, output.Options{Width: renderFlags.width})
}

// parseVars parses name=value pairs.
func parseVars(vars []string, stdin io.Reader) (map[string]string, error) {
	fields := make(map[string]string, len(vars))
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (want name=value)", kv)
		}
		resolved, err := readValue(value, stdin)
		if err != nil {
			return nil, err
		}
		fields[name] = resolved
	}
	return fields, nil
}

// readValue resolves @path and @- references.
func readValue(value string, stdin io.Reader) (string, error) {
	if !strings.HasPrefix(value, "@") || value == "@" {
		return value, nil
	}
	path := value[1:]
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read value file: %w", err)
	}
	return string(data), nil
}
