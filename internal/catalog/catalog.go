// Package catalog loads template-set definitions from YAML files and
// compiles them on demand.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/promptgen/prompt"
)

// ErrNotFound is returned when a set name is not in the catalog.
var ErrNotFound = errors.New("template set not found")

// SourceBuiltin marks definitions embedded in the binary.
const SourceBuiltin = "builtin"

// Definition is one template set as declared in a YAML file.
type Definition struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Type        string          `yaml:"type,omitempty"`    // Go type name for code generation
	Package     string          `yaml:"package,omitempty"` // Go package for code generation
	Tags        []string        `yaml:"tags,omitempty"`
	Messages    []prompt.Source `yaml:"messages"`
	Source      string          `yaml:"-"` // file path or "builtin"
}

// Compile compiles the definition's messages.
func (d *Definition) Compile() (*prompt.Compiled, error) {
	return prompt.CompileSources(d.Name, d.Messages)
}

// Builtin reports whether the definition is embedded in the binary.
func (d *Definition) Builtin() bool {
	return d.Source == SourceBuiltin
}

// Catalog is a named collection of definitions. Compiled sets are cached
// per name; a Catalog is safe for concurrent use.
type Catalog struct {
	mu       sync.Mutex
	defs     map[string]*Definition
	order    []string
	compiled map[string]*prompt.Compiled
}

// New builds a catalog from defs. When two definitions share a name, the
// first one wins.
func New(defs []*Definition) *Catalog {
	c := &Catalog{
		defs:     make(map[string]*Definition, len(defs)),
		compiled: make(map[string]*prompt.Compiled),
	}
	for _, d := range defs {
		if _, exists := c.defs[d.Name]; exists {
			continue
		}
		c.defs[d.Name] = d
		c.order = append(c.order, d.Name)
	}
	return c
}

// Names returns the set names sorted alphabetically.
func (c *Catalog) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.Strings(names)
	return names
}

// Definitions returns every definition sorted by name.
func (c *Catalog) Definitions() []*Definition {
	names := c.Names()

	c.mu.Lock()
	defer c.mu.Unlock()
	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, c.defs[name])
	}
	return defs
}

// Definition looks up a definition by name.
func (c *Catalog) Definition(name string) (*Definition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

// Compile returns the compiled form of the named set, compiling it on first
// use.
func (c *Catalog) Compile(name string) (*prompt.Compiled, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.compiled[name]; ok {
		return compiled, nil
	}
	d, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	compiled, err := d.Compile()
	if err != nil {
		return nil, err
	}
	c.compiled[name] = compiled
	return compiled, nil
}

// Len returns the number of sets in the catalog.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
