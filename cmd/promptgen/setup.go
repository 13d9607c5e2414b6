package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/config"
)

var setupFlags struct {
	project    bool
	force      bool
	withSample bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create promptgen configuration file",
	Long: `Create a promptgen configuration file with sensible defaults.

By default, creates a global config at ~/.config/promptgen/promptgen.yml.
Use --project to create a project-local config in the current directory.
--with-sample also writes an example template set.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().BoolVar(&setupFlags.withSample, "with-sample", false, "Write a sample template set")
}

const sampleSet = `name: greeting
description: Greet a user in their language
type: Greeting
tags: [sample]
messages:
  - role: system
    content: "You are a friendly assistant. Always answer in {language}."
  - role: user
    content: "Hi, my name is {name}."
`

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	setsDir := filepath.Join(config.GlobalDir(), "sets")
	if setupFlags.project {
		targetPath = config.ProjectPath()
		setsDir = catalog.ProjectSetsDir
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	newCfg := config.Defaults()

	var err error
	if setupFlags.project {
		err = config.WriteProject(newCfg)
	} else {
		err = config.WriteGlobal(newCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config written to: %s\n", targetPath)

	if setupFlags.withSample {
		path, err := writeSample(setsDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sample set written to: %s\n", path)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'promptgen list' to see available template sets.")
	return nil
}

// writeSample writes the sample set into dir unless it already exists.
func writeSample(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "greeting.yaml")
	if fileExists(path) && !setupFlags.force {
		return "", fmt.Errorf("%s already exists\n\nUse --force to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(sampleSet), 0644); err != nil {
		return "", fmt.Errorf("failed to write sample set: %w", err)
	}
	return path, nil
}
