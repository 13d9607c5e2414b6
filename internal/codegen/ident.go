package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrBadIdentifier is returned when a name cannot be turned into a Go
	// identifier.
	ErrBadIdentifier = errors.New("cannot derive Go identifier")
	// ErrFieldCollision is returned when two variables map to the same Go
	// field, or a field shadows a generated method.
	ErrFieldCollision = errors.New("field name collision")
)

// initialisms are upper-cased as a whole when they form a word.
var initialisms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"json": "JSON",
	"sql":  "SQL",
	"ui":   "UI",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
	"xml":  "XML",
}

// reservedMethods are the methods generated on every struct.
var reservedMethods = map[string]bool{
	"Render": true,
	"Values": true,
}

// predeclared identifiers that a parameter must not shadow. The import name
// of the prompt package is included.
var predeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"clear": true, "close": true, "comparable": true, "complex": true,
	"complex128": true, "complex64": true, "copy": true, "delete": true,
	"error": true, "false": true, "float32": true, "float64": true,
	"imag": true, "int": true, "int16": true, "int32": true, "int64": true,
	"int8": true, "iota": true, "len": true, "make": true, "max": true,
	"min": true, "new": true, "nil": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true, "rune": true,
	"string": true, "true": true, "uint": true, "uint16": true,
	"uint32": true, "uint64": true, "uint8": true, "uintptr": true,
	"prompt": true,
}

// words splits s on every rune that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// FieldName derives an exported Go identifier from a placeholder name:
// "text" → "Text", "example_input" → "ExampleInput", "user-id" → "UserID".
// Results that would not start with an upper-case letter get an "F" prefix.
func FieldName(variable string) (string, error) {
	parts := words(variable)
	if len(parts) == 0 {
		return "", fmt.Errorf("%w from %q", ErrBadIdentifier, variable)
	}

	var b strings.Builder
	for _, part := range parts {
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	first := []rune(name)[0]
	if !unicode.IsUpper(first) {
		name = "F" + name
	}
	if !token.IsIdentifier(name) {
		return "", fmt.Errorf("%w from %q", ErrBadIdentifier, variable)
	}
	return name, nil
}

// TypeName derives the struct name for a template set.
func TypeName(setName string) (string, error) {
	return FieldName(setName)
}

// PackageName derives a Go package name from a set name: lower-case letters
// and digits only, "code-review" → "codereview".
func PackageName(setName string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(setName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) || !token.IsIdentifier(name) || token.IsKeyword(name) {
		return "", fmt.Errorf("%w: package from %q", ErrBadIdentifier, setName)
	}
	return name, nil
}

// ParamName derives an unexported parameter name from a field name by
// lower-casing its leading word: "Text" → "text", "URLPath" → "urlPath",
// "ID" → "id". Keywords, predeclared identifiers and "prompt" get a
// "Value" suffix.
func ParamName(field string) string {
	runes := []rune(field)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
	case n == 1 || n == len(runes):
		for i := 0; i < n; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	case unicode.IsLower(runes[n]):
		// The last upper-case rune starts the next word.
		for i := 0; i < n-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	default:
		for i := 0; i < n; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}

	name := string(runes)
	if token.IsKeyword(name) || predeclared[name] {
		name += "Value"
	}
	return name
}

// Field maps one placeholder name to its generated identifiers.
type Field struct {
	Variable string // placeholder name as written in the template
	Name     string // exported struct field
	Param    string // parameter of the Make constructor
}

// Fields derives struct fields and constructor parameters for variables,
// preserving order. Distinct variables must map to distinct fields.
func Fields(variables []string) ([]Field, error) {
	fields := make([]Field, 0, len(variables))
	byName := make(map[string]string, len(variables))
	params := make(map[string]bool, len(variables))

	for _, v := range variables {
		name, err := FieldName(v)
		if err != nil {
			return nil, err
		}
		if reservedMethods[name] {
			return nil, fmt.Errorf("%w: variable %q maps to field %s, which is a generated method", ErrFieldCollision, v, name)
		}
		if other, ok := byName[name]; ok {
			return nil, fmt.Errorf("%w: variables %q and %q both map to field %s", ErrFieldCollision, other, v, name)
		}
		byName[name] = v

		param := ParamName(name)
		for i := 2; params[param]; i++ {
			param = ParamName(name) + strconv.Itoa(i)
		}
		params[param] = true

		fields = append(fields, Field{Variable: v, Name: name, Param: param})
	}
	return fields, nil
}
