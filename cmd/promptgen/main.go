package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/config"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/internal/output"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	setsDir string
	verbose bool
	noColor bool
}

// cfg is the resolved configuration, loaded before any subcommand runs.
var cfg *config.Config

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "promptgen",
	Short: "Typed prompt template sets with code generation",
	Long: `promptgen turns chat-style message templates into typed Go code.

A template set is a YAML file listing role-tagged messages whose content
contains {name} placeholders. promptgen collects the distinct placeholders
into a schema, renders the set from field values, and generates a Go struct
with a Render method and a positional Make constructor.

Sets are looked up in --sets-dir, ./.promptgen/sets, the user config
directory and /usr/share/promptgen/sets, then in the builtin sets.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.setsDir, "sets-dir", "", "Directory searched first for template sets")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(setupCmd)
}

// loadConfig resolves configuration and applies root flags on top of it.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sets-dir") {
		loaded.SetsDir = rootFlags.setsDir
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	if err := logger.Configure(loaded.LogLevel, loaded.LogFile); err != nil {
		return err
	}
	if rootFlags.verbose {
		logger.Default.SetLevel(logger.LevelDebug)
		if loaded.LogFile == "" {
			logger.Default.SetOutput(os.Stderr)
		}
	}

	if rootFlags.noColor || os.Getenv("NO_COLOR") != "" {
		output.DisableColor()
	}

	cfg = loaded
	logger.Debug("Config loaded: sets_dir=%q format=%s", cfg.SetsDir, cfg.Format)
	return nil
}
