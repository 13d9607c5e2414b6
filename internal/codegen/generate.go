// Package codegen emits Go source for compiled template sets: a struct with
// one string field per placeholder, a Render method and a positional Make
// constructor.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"text/template"

	"github.com/gosimple/slug"

	"github.com/mark3labs/promptgen/prompt"
)

// DefaultImportPath is the import path of the prompt package used by
// generated code.
const DefaultImportPath = "github.com/mark3labs/promptgen/prompt"

// Options controls code generation.
type Options struct {
	Package     string // required Go package name
	TypeName    string // struct name; derived from the set name when empty
	Source      string // definition file named in the header comment
	Description string // doc text for the struct
	ImportPath  string // defaults to DefaultImportPath
}

type fileData struct {
	Header      string
	Package     string
	ImportPath  string
	SetName     string
	TypeName    string
	Description string
	Fields      []fieldData
	Messages    []messageData
}

type fieldData struct {
	Field
	Comment string
}

type messageData struct {
	Role    string
	Content string
}

var fileTemplate = template.Must(template.New("file").Parse(`// {{.Header}}

package {{.Package}}

import "{{.ImportPath}}"

// {{.TypeName}} holds the placeholder values of the {{printf "%q" .SetName}} template set.
{{- if .Description}}
//
// {{.Description}}
{{- end}}
type {{.TypeName}} struct {
{{- range .Fields}}
	{{.Name}} string // {{.Comment}}
{{- end}}
}

// Render renders every message of the set in order.
func (p {{.TypeName}}) Render() []prompt.Message {
	return []prompt.Message{
{{- range .Messages}}
		{Role: {{.Role}}, Content: {{.Content}}},
{{- end}}
	}
}

// Values returns the placeholder values keyed by variable name.
func (p {{.TypeName}}) Values() map[string]string {
	return map[string]string{
{{- range .Fields}}
		{{printf "%q" .Variable}}: p.{{.Name}},
{{- end}}
	}
}

// Make{{.TypeName}} renders the set from positional values in field order.
func Make{{.TypeName}}({{range $i, $f := .Fields}}{{if $i}}, {{end}}{{$f.Param}}{{end}}{{if .Fields}} string{{end}}) []prompt.Message {
	return {{.TypeName}}{
{{- range .Fields}}
		{{.Name}}: {{.Param}},
{{- end}}
	}.Render()
}
`))

// Generate returns gofmt'd Go source for compiled. The generated Render
// method produces the same messages as compiled.Render for the same values.
func Generate(compiled *prompt.Compiled, opts Options) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) || opts.Package == "prompt" {
		return nil, fmt.Errorf("%w: invalid package name %q", ErrBadIdentifier, opts.Package)
	}

	typeName := opts.TypeName
	if typeName == "" {
		derived, err := TypeName(compiled.Name())
		if err != nil {
			return nil, err
		}
		typeName = derived
	}
	if !token.IsIdentifier(typeName) || !token.IsExported(typeName) {
		return nil, fmt.Errorf("%w: type name %q must be an exported identifier", ErrBadIdentifier, typeName)
	}

	fields, err := Fields(compiled.Fields())
	if err != nil {
		return nil, fmt.Errorf("generate %q: %w", compiled.Name(), err)
	}
	byVariable := make(map[string]string, len(fields))
	fieldRows := make([]fieldData, 0, len(fields))
	for _, f := range fields {
		byVariable[f.Variable] = f.Name
		fieldRows = append(fieldRows, fieldData{Field: f, Comment: placeholderComment(f.Variable)})
	}

	templates := compiled.Templates()
	messages := make([]messageData, 0, len(templates))
	for _, tmpl := range templates {
		messages = append(messages, messageData{
			Role:    "prompt.Role" + tmpl.Role().Title(),
			Content: contentExpr(tmpl.Tokens(), byVariable),
		})
	}

	importPath := opts.ImportPath
	if importPath == "" {
		importPath = DefaultImportPath
	}

	data := fileData{
		Header:      header(opts.Source),
		Package:     opts.Package,
		ImportPath:  importPath,
		SetName:     compiled.Name(),
		TypeName:    typeName,
		Description: oneLine(opts.Description),
		Fields:      fieldRows,
		Messages:    messages,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// contentExpr builds a string concatenation expression for tokens.
func contentExpr(tokens []prompt.Token, fields map[string]string) string {
	if len(tokens) == 0 {
		return `""`
	}
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsPlaceholder() {
			parts = append(parts, "p."+fields[tok.Text])
			continue
		}
		parts = append(parts, strconv.Quote(tok.Text))
	}
	return strings.Join(parts, " + ")
}

// placeholderComment renders a variable in template syntax, quoting names
// that would break a line comment.
func placeholderComment(variable string) string {
	if strings.ContainsAny(variable, "\r\n") {
		return strconv.Quote("{" + variable + "}")
	}
	return "{" + variable + "}"
}

func header(source string) string {
	if source == "" {
		return "Code generated by promptgen. DO NOT EDIT."
	}
	return fmt.Sprintf("Code generated by promptgen from %s. DO NOT EDIT.", source)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FileName returns the generated file name for a set: "code-review" →
// "code_review_prompt.go".
func FileName(setName string) string {
	base := strings.ReplaceAll(slug.Make(setName), "-", "_")
	if base == "" {
		base = "unnamed"
	}
	return base + "_prompt.go"
}
