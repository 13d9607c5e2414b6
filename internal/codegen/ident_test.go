package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		variable string
		want     string
		wantErr  bool
	}{
		{variable: "a", want: "A"},
		{variable: "text", want: "Text"},
		{variable: "example_input", want: "ExampleInput"},
		{variable: "code-review", want: "CodeReview"},
		{variable: "user id", want: "UserID"},
		{variable: "url", want: "URL"},
		{variable: "camelCase", want: "CamelCase"},
		{variable: "2nd", want: "F2nd"},
		{variable: "a{b", want: "AB"},
		{variable: "名前", want: "F名前"},
		{variable: "éclair", want: "Éclair"},
		{variable: "---", wantErr: true},
		{variable: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.variable, func(t *testing.T) {
			got, err := FieldName(tt.variable)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadIdentifier)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParamName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{field: "A", want: "a"},
		{field: "Text", want: "text"},
		{field: "ExampleInput", want: "exampleInput"},
		{field: "ID", want: "id"},
		{field: "URLPath", want: "urlPath"},
		{field: "ID2", want: "id2"},
		{field: "Type", want: "typeValue"},
		{field: "String", want: "stringValue"},
		{field: "Len", want: "lenValue"},
		{field: "Prompt", want: "promptValue"},
		{field: "F2nd", want: "f2nd"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			require.Equal(t, tt.want, ParamName(tt.field))
		})
	}
}

func TestFields(t *testing.T) {
	fields, err := Fields([]string{"a", "b", "text"})
	require.NoError(t, err)
	require.Equal(t, []Field{
		{Variable: "a", Name: "A", Param: "a"},
		{Variable: "b", Name: "B", Param: "b"},
		{Variable: "text", Name: "Text", Param: "text"},
	}, fields)

	fields, err = Fields([]string{})
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestFieldsDuplicateParams(t *testing.T) {
	fields, err := Fields([]string{"xyz", "XYZ", "type"})
	require.NoError(t, err)
	require.Equal(t, "Xyz", fields[0].Name)
	require.Equal(t, "xyz", fields[0].Param)
	require.Equal(t, "XYZ", fields[1].Name)
	require.Equal(t, "xyz2", fields[1].Param)
	require.Equal(t, "typeValue", fields[2].Param)
}

func TestFieldsCollision(t *testing.T) {
	tests := []struct {
		name      string
		variables []string
	}{
		{name: "same field", variables: []string{"user_name", "user-name"}},
		{name: "case differs only in first rune", variables: []string{"text", "Text"}},
		{name: "render method", variables: []string{"render"}},
		{name: "values method", variables: []string{"values"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fields(tt.variables)
			require.ErrorIs(t, err, ErrFieldCollision)
		})
	}
}

func TestPackageName(t *testing.T) {
	got, err := PackageName("code-review")
	require.NoError(t, err)
	require.Equal(t, "codereview", got)

	got, err = PackageName("Translate")
	require.NoError(t, err)
	require.Equal(t, "translate", got)

	_, err = PackageName("2fa")
	require.ErrorIs(t, err, ErrBadIdentifier)

	_, err = PackageName("func")
	require.ErrorIs(t, err, ErrBadIdentifier)
}
