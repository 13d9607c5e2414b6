package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/promptgen/prompt"
)

const maxNameLength = 64

// LoadDefinition reads a single template set from disk.
func LoadDefinition(path string) (*Definition, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("template set path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template set %s: %w", path, err)
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("parse template set %s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

// LoadFromDir loads all template sets from a directory. A missing directory
// yields no sets.
func LoadFromDir(dir string) ([]*Definition, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Definition{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Definition{}, nil
		}
		return nil, fmt.Errorf("read template sets dir %s: %w", dir, err)
	}

	defs := make([]*Definition, 0)
	for _, entry := range entries {
		if entry.IsDir() || !IsDefinitionFile(entry.Name()) {
			continue
		}
		def, err := LoadDefinition(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})

	return defs, nil
}

// IsDefinitionFile reports whether name has a YAML extension.
func IsDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// ParseDefinition decodes and validates a YAML template set. Every message
// must compile.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}

	def.Name = strings.TrimSpace(def.Name)
	if err := ValidateName(def.Name); err != nil {
		return nil, err
	}
	def.Description = strings.TrimSpace(def.Description)
	def.Type = strings.TrimSpace(def.Type)
	def.Package = strings.TrimSpace(def.Package)

	if len(def.Messages) == 0 {
		return nil, fmt.Errorf("template set %q has no messages", def.Name)
	}
	for i := range def.Messages {
		role, err := prompt.ParseRole(string(def.Messages[i].Role))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		def.Messages[i].Role = role
	}

	if _, err := def.Compile(); err != nil {
		return nil, err
	}
	return &def, nil
}

// ValidateName checks that a set name is usable as a file stem, an MCP
// prompt name and a NATS subject token.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("template set name is required")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("template set name too long (max %d characters): %s", maxNameLength, name)
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return fmt.Errorf("invalid template set name: %s (use only alphanumeric, hyphens, underscores)", name)
		}
	}
	return nil
}

// MarshalDefinition encodes a definition in the on-disk YAML form.
func MarshalDefinition(def *Definition) ([]byte, error) {
	return yaml.Marshal(def)
}
