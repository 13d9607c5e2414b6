package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/codegen"
	"github.com/mark3labs/promptgen/internal/output"
	"github.com/mark3labs/promptgen/prompt"
)

var inspectFlags struct {
	json bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <set-or-file>",
	Short: "Show the schema and templates of a set",
	Long: `Show a template set's fields in schema order, the Go identifiers
generated for them, and the message templates.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectFlags.json, "json", false, "Print the schema as JSON")
}

type inspectResult struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Source      string          `json:"source"`
	Fields      []string        `json:"fields"`
	Messages    []prompt.Source `json:"messages"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	def, compiled, err := resolveSet(cat, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if inspectFlags.json {
		data, err := json.MarshalIndent(inspectResult{
			Name:        def.Name,
			Description: def.Description,
			Source:      def.Source,
			Fields:      compiled.Fields(),
			Messages:    def.Messages,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintf(w, "Name:        %s\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", def.Description)
	}
	fmt.Fprintf(w, "Source:      %s\n", def.Source)
	if len(def.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(def.Tags, ", "))
	}
	fmt.Fprintln(w)

	rows, genErr := schemaRows(compiled.Fields())
	if err := output.Schema(w, "Fields", rows); err != nil {
		return err
	}
	if genErr != nil {
		if err := output.Muted(w, "code generation would fail: %v", genErr); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)

	for i, tmpl := range compiled.Templates() {
		if err := output.Muted(w, "[%d] %s", i+1, tmpl.Role()); err != nil {
			return err
		}
		fmt.Fprintln(w, tmpl.Source())
	}
	return nil
}

// schemaRows maps variables to their generated identifiers. When the
// identifiers cannot be derived the rows show only the variables.
func schemaRows(variables []string) ([][]string, error) {
	fields, err := codegen.Fields(variables)
	if err != nil {
		rows := make([][]string, 0, len(variables))
		for _, v := range variables {
			rows = append(rows, []string{v, "-", "-"})
		}
		return rows, err
	}

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Variable, f.Name, f.Param})
	}
	return rows, nil
}
