package prompt

import "fmt"

// Source is the declarative form of one message template.
type Source struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Compiled is a template set together with its schema: the ordered list of
// distinct placeholder names. A Compiled is immutable and safe for
// concurrent use.
type Compiled struct {
	name      string
	templates []MessageTemplate
	fields    []string
	index     map[string]int
}

// Compile derives the schema of set. The set is copied; later changes to the
// caller's slice do not affect the result.
func Compile(name string, set []MessageTemplate) *Compiled {
	templates := make([]MessageTemplate, len(set))
	copy(templates, set)

	fields := CollectVariables(templates)
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f] = i
	}

	return &Compiled{
		name:      name,
		templates: templates,
		fields:    fields,
		index:     index,
	}
}

// CompileSources builds every source in order and compiles the result. It
// stops at the first malformed template.
func CompileSources(name string, sources []Source) (*Compiled, error) {
	set := make([]MessageTemplate, 0, len(sources))
	for i, src := range sources {
		tmpl, err := Build(src.Role, src.Content)
		if err != nil {
			return nil, fmt.Errorf("compile %q: message %d (%s): %w", name, i+1, src.Role, err)
		}
		set = append(set, tmpl)
	}
	return Compile(name, set), nil
}

// MustCompile is like CompileSources but panics on error. It is intended
// for package-level template sets.
func MustCompile(name string, sources ...Source) *Compiled {
	c, err := CompileSources(name, sources)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the name the set was compiled under.
func (c *Compiled) Name() string {
	return c.name
}

// Fields returns the schema field names in order.
func (c *Compiled) Fields() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)
	return out
}

// HasField reports whether name is part of the schema.
func (c *Compiled) HasField(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Templates returns a copy of the compiled templates.
func (c *Compiled) Templates() []MessageTemplate {
	out := make([]MessageTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of messages Render produces.
func (c *Compiled) Len() int {
	return len(c.templates)
}

// Render substitutes fields into every template and returns one message per
// template, in set order. Every schema field must be present; extra keys are
// ignored. The first missing field in schema order is reported as a
// *RenderError.
func (c *Compiled) Render(fields map[string]string) ([]Message, error) {
	for _, name := range c.fields {
		if _, ok := fields[name]; !ok {
			return nil, &RenderError{Name: name}
		}
	}

	messages := make([]Message, 0, len(c.templates))
	for _, tmpl := range c.templates {
		messages = append(messages, tmpl.render(fields))
	}
	return messages, nil
}

// Bind zips positional values with the schema fields.
func (c *Compiled) Bind(values ...string) (map[string]string, error) {
	if len(values) != len(c.fields) {
		return nil, &ArityError{Expected: len(c.fields), Actual: len(values)}
	}
	fields := make(map[string]string, len(values))
	for i, name := range c.fields {
		fields[name] = values[i]
	}
	return fields, nil
}

// Make renders the set from one value per schema field, in field order.
func (c *Compiled) Make(values ...string) ([]Message, error) {
	fields, err := c.Bind(values...)
	if err != nil {
		return nil, err
	}
	return c.Render(fields)
}
