package catalog

import (
	"path/filepath"

	"github.com/mark3labs/promptgen/internal/config"
	"github.com/mark3labs/promptgen/internal/logger"
)

// ProjectSetsDir is the per-project template set directory, relative to the
// project root.
const ProjectSetsDir = ".promptgen/sets"

// SearchPaths returns template set directories in precedence order: extra
// directories first, then the project, user and system directories.
func SearchPaths(projectDir string, extra ...string) []string {
	paths := make([]string, 0, len(extra)+3)
	for _, dir := range extra {
		if dir != "" {
			paths = append(paths, dir)
		}
	}
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ProjectSetsDir))
	}

	if dir := config.GlobalDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "sets"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "promptgen", "sets"))
	return paths
}

// Load loads template sets from paths with first-hit precedence, followed by
// the builtin sets.
func Load(paths []string) (*Catalog, error) {
	var defs []*Definition
	for _, path := range paths {
		found, err := LoadFromDir(path)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			logger.Debug("Loaded %d template sets from %s", len(found), path)
		}
		defs = append(defs, found...)
	}

	builtins, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	defs = append(defs, builtins...)

	return New(defs), nil
}

// LoadFiles builds a catalog from explicit definition files only.
func LoadFiles(files []string) (*Catalog, error) {
	defs := make([]*Definition, 0, len(files))
	for _, file := range files {
		def, err := LoadDefinition(file)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return New(defs), nil
}
