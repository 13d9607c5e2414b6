// Package prompt compiles chat message templates into a field schema and
// renders them into role-tagged messages.
//
// A template is a role plus a string containing {name} placeholders:
//
//	tmpl := prompt.MustCompile("translate",
//		prompt.Source{Role: prompt.RoleSystem, Content: "translate {a} to {b}."},
//		prompt.Source{Role: prompt.RoleUser, Content: "{text}"},
//	)
//	tmpl.Fields()                              // [a b text]
//	msgs, err := tmpl.Make("French", "English", "Hello")
//
// The template language has exactly two token kinds: literal text and a
// single-level named placeholder. There is no escaping; every '{' opens a
// placeholder and must be closed by a later '}'.
//
// For build-time generated types, see the promptgen command, which emits a
// struct per template set that renders without a runtime schema check.
package prompt
