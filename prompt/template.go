package prompt

import "fmt"

// MessageTemplate is a tokenized template string tagged with a role.
type MessageTemplate struct {
	role   Role
	tokens []Token
}

// Build tokenizes source and tags it with role.
func Build(role Role, source string) (MessageTemplate, error) {
	if !role.Valid() {
		return MessageTemplate{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}
	tokens, err := Tokenize(source)
	if err != nil {
		return MessageTemplate{}, err
	}
	return MessageTemplate{role: role, tokens: tokens}, nil
}

// System builds a system message template.
func System(source string) (MessageTemplate, error) {
	return Build(RoleSystem, source)
}

// User builds a user message template.
func User(source string) (MessageTemplate, error) {
	return Build(RoleUser, source)
}

// Assistant builds an assistant message template.
func Assistant(source string) (MessageTemplate, error) {
	return Build(RoleAssistant, source)
}

func (t MessageTemplate) Role() Role {
	return t.role
}

// Tokens returns a copy of the template's tokens.
func (t MessageTemplate) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Source returns the template in its original syntax.
func (t MessageTemplate) Source() string {
	return Join(t.tokens)
}

// render concatenates the template's tokens, substituting fields for
// placeholders. Callers must have checked that every placeholder is present.
func (t MessageTemplate) render(fields map[string]string) Message {
	size := 0
	for _, tok := range t.tokens {
		if tok.Kind == TokenPlaceholder {
			size += len(fields[tok.Text])
		} else {
			size += len(tok.Text)
		}
	}

	buf := make([]byte, 0, size)
	for _, tok := range t.tokens {
		if tok.Kind == TokenPlaceholder {
			buf = append(buf, fields[tok.Text]...)
		} else {
			buf = append(buf, tok.Text...)
		}
	}
	return Message{Role: t.role, Content: string(buf)}
}
