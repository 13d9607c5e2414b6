package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/promptgen/internal/catalog"
	"github.com/mark3labs/promptgen/internal/logger"
	"github.com/mark3labs/promptgen/prompt"
)

// openCatalog loads every set visible from the working directory.
func openCatalog() (*catalog.Catalog, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	paths := catalog.SearchPaths(wd, cfg.SetsDir)
	logger.Debug("Template set search paths: %v", paths)

	cat, err := catalog.Load(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load template sets: %w", err)
	}
	return cat, nil
}

// resolveSet looks arg up as a definition file first, then as a set name.
func resolveSet(cat *catalog.Catalog, arg string) (*catalog.Definition, *prompt.Compiled, error) {
	if catalog.IsDefinitionFile(arg) && fileExists(arg) {
		def, err := catalog.LoadDefinition(arg)
		if err != nil {
			return nil, nil, err
		}
		compiled, err := def.Compile()
		if err != nil {
			return nil, nil, err
		}
		return def, compiled, nil
	}

	def, err := cat.Definition(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w\n\nRun 'promptgen list' to see available sets", err)
	}
	compiled, err := cat.Compile(arg)
	if err != nil {
		return nil, nil, err
	}
	return def, compiled, nil
}

// fileExists checks if a regular file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
