package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/codegen"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/internal/output"
)

// errStale is returned by generate --check when a file differs.
var errStale = errors.New("generated code is out of date")

var generateFlags struct {
	out      string
	pkg      string
	typeName string
	all      bool
	check    bool
	stdout   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [set-or-file...]",
	Short: "Generate Go code for template sets",
	Long: `Generate a Go struct, Render method and Make constructor for each named
template set. Arguments are set names or paths to set files.

Files are written to --out as <set>_prompt.go. With --check nothing is
written; a diff is printed for every stale file and the command fails.

Use it from go:generate:

  //go:generate go run github.com/mark3labs/promptgen/cmd/promptgen generate translate.yaml`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.out, "out", "o", "", "Output directory (default: out_dir config, then .)")
	generateCmd.Flags().StringVarP(&generateFlags.pkg, "package", "p", "", "Go package name (default: set package, package config, then output directory name)")
	generateCmd.Flags().StringVarP(&generateFlags.typeName, "type", "t", "", "Struct name; only valid with a single set")
	generateCmd.Flags().BoolVarP(&generateFlags.all, "all", "a", false, "Generate every non-builtin set in the catalog")
	generateCmd.Flags().BoolVar(&generateFlags.check, "check", false, "Report stale files instead of writing them")
	generateCmd.Flags().BoolVar(&generateFlags.stdout, "stdout", false, "Print generated code instead of writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !generateFlags.all {
		return fmt.Errorf("no template sets given\n\nPass set names or files, or use --all")
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}

	defs, err := generateTargets(cat, args)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return fmt.Errorf("no template sets to generate")
	}
	if generateFlags.typeName != "" && len(defs) > 1 {
		return fmt.Errorf("--type can only be used with a single template set")
	}

	outDir := cfg.OutDir
	if cmd.Flags().Changed("out") {
		outDir = generateFlags.out
	}
	if outDir == "" {
		outDir = "."
	}

	stale := 0
	for _, def := range defs {
		src, err := generateSet(def, outDir)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, codegen.FileName(def.Name))

		switch {
		case generateFlags.stdout:
			if err := output.WriteCode(cmd.OutOrStdout(), string(src), path); err != nil {
				return err
			}
		case generateFlags.check:
			diff, err := codegen.Diff(path, src)
			if err != nil {
				return err
			}
			if diff != "" {
				stale++
				fmt.Fprint(cmd.OutOrStdout(), diff)
			}
		default:
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(path, src, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logger.Info("Generated %s from %s", path, def.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
	}

	if stale > 0 {
		return fmt.Errorf("%w: %d file(s)\n\nRun 'promptgen generate' to update", errStale, stale)
	}
	return nil
}

// generateTargets resolves the sets to generate.
func generateTargets(cat *catalog.Catalog, args []string) ([]*catalog.Definition, error) {
	var defs []*catalog.Definition
	seen := make(map[string]bool)

	if generateFlags.all {
		for _, def := range cat.Definitions() {
			if def.Builtin() {
				continue
			}
			seen[def.Name] = true
			defs = append(defs, def)
		}
	}

	for _, arg := range args {
		def, _, err := resolveSet(cat, arg)
		if err != nil {
			return nil, err
		}
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		defs = append(defs, def)
	}
	return defs, nil
}

// generateSet produces the source for def.
func generateSet(def *catalog.Definition, outDir string) ([]byte, error) {
	compiled, err := def.Compile()
	if err != nil {
		return nil, err
	}

	pkg, err := packageFor(def, outDir)
	if err != nil {
		return nil, err
	}

	typeName := def.Type
	if generateFlags.typeName != "" {
		typeName = generateFlags.typeName
	}

	source := filepath.Base(def.Source)
	if def.Builtin() {
		source = "builtin set " + def.Name
	}

	return codegen.Generate(compiled, codegen.Options{
		Package:     pkg,
		TypeName:    typeName,
		Source:      source,
		Description: def.Description,
	})
}

// packageFor picks the package name: flag, set file, config, then the
// output directory name.
func packageFor(def *catalog.Definition, outDir string) (string, error) {
	switch {
	case generateFlags.pkg != "":
		return generateFlags.pkg, nil
	case def.Package != "":
		return def.Package, nil
	case cfg.Package != "":
		return cfg.Package, nil
	}

	abs, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	pkg, err := codegen.PackageName(filepath.Base(abs))
	if err != nil {
		return "", fmt.Errorf("%w\n\nUse --package to name the package", err)
	}
	return pkg, nil
}
