package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
)

var editFlags struct {
	copy bool
}

var editCmd = &cobra.Command{
	Use:   "edit <set-or-file>",
	Short: "Open a template set in $EDITOR",
	Long: `Open a template set file in $EDITOR and validate it when the editor exits.

Builtin sets cannot be edited in place; use --copy to copy one into
./.promptgen/sets first.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&editFlags.copy, "copy", false, "Copy a builtin set into the project before editing")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	def, _, err := resolveSet(cat, args[0])
	if err != nil {
		return err
	}

	path := def.Source
	if def.Builtin() {
		if !editFlags.copy {
			return fmt.Errorf("%q is a builtin set and cannot be edited in place\n\nUse --copy to copy it into %s", def.Name, catalog.ProjectSetsDir)
		}
		path, err = copyBuiltin(def)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied builtin set to %s\n", path)
	}

	c, err := editor.Command("promptgen", path)
	if err != nil {
		return fmt.Errorf("failed to prepare editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	logger.Debug("Opening %s in editor: %s", path, c.Path)
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	edited, err := catalog.LoadDefinition(path)
	if err != nil {
		return fmt.Errorf("%s is no longer valid: %w\n\nRun 'promptgen edit %s' to fix it", path, err, path)
	}
	compiled, err := edited.Compile()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d messages, %d fields\n", edited.Name, compiled.Len(), len(compiled.Fields()))
	return nil
}

// copyBuiltin writes a builtin definition into the project sets directory.
func copyBuiltin(def *catalog.Definition) (string, error) {
	dir := catalog.ProjectSetsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, def.Name+".yaml")
	if fileExists(path) {
		return "", fmt.Errorf("%s already exists", path)
	}

	data, err := catalog.MarshalDefinition(def)
	if err != nil {
		return "", fmt.Errorf("failed to encode set: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
