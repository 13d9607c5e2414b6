package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tmpl, err := Build(RoleUser, "hi {name}")
	require.NoError(t, err)
	require.Equal(t, RoleUser, tmpl.Role())
	require.Equal(t, []Token{Literal("hi "), Placeholder("name")}, tmpl.Tokens())
	require.Equal(t, "hi {name}", tmpl.Source())
}

func TestBuildUnknownRole(t *testing.T) {
	_, err := Build(Role("tool"), "x")
	require.True(t, errors.Is(err, ErrUnknownRole))
}

func TestNamedConstructors(t *testing.T) {
	constructors := map[Role]func(string) (MessageTemplate, error){
		RoleSystem:    System,
		RoleUser:      User,
		RoleAssistant: Assistant,
	}
	for role, build := range constructors {
		tmpl, err := build("{x}")
		require.NoError(t, err)
		require.Equal(t, role, tmpl.Role())

		_, err = build("{x")
		require.ErrorIs(t, err, ErrUnterminatedPlaceholder)
	}
}

func TestTokensReturnsCopy(t *testing.T) {
	tmpl, err := User("{a}")
	require.NoError(t, err)

	tokens := tmpl.Tokens()
	tokens[0] = Literal("changed")
	require.Equal(t, []Token{Placeholder("a")}, tmpl.Tokens())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"system", RoleSystem, false},
		{"User", RoleUser, false},
		{" ASSISTANT ", RoleAssistant, false},
		{"tool", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRoleTitle(t *testing.T) {
	require.Equal(t, "System", RoleSystem.Title())
	require.Equal(t, "", Role("").Title())
	require.Len(t, Roles(), 3)
}
