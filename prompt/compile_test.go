package prompt

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func translateSet(t *testing.T) *Compiled {
	t.Helper()
	c, err := CompileSources("translate", []Source{
		{Role: RoleSystem, Content: "translate {a} to {b}."},
		{Role: RoleUser, Content: "{text}"},
	})
	require.NoError(t, err)
	return c
}

func TestCompileTranslateScenario(t *testing.T) {
	c := translateSet(t)
	require.Equal(t, "translate", c.Name())
	require.Equal(t, []string{"a", "b", "text"}, c.Fields())
	require.Equal(t, 2, c.Len())

	msgs, err := c.Make("French", "English", "Hello")
	require.NoError(t, err)
	require.Equal(t, []Message{
		{Role: RoleSystem, Content: "translate French to English."},
		{Role: RoleUser, Content: "Hello"},
	}, msgs)
}

func TestRenderMissingVariable(t *testing.T) {
	c := translateSet(t)

	_, err := c.Render(map[string]string{"a": "French", "text": "Hello"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingVariable))

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, "b", rerr.Name)
}

func TestRenderReportsFirstMissingInFieldOrder(t *testing.T) {
	c := translateSet(t)

	_, err := c.Render(map[string]string{})
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, "a", rerr.Name)
}

func TestRenderEmptyValueIsNotMissing(t *testing.T) {
	c := translateSet(t)

	msgs, err := c.Render(map[string]string{"a": "", "b": "", "text": ""})
	require.NoError(t, err)
	require.Equal(t, "translate  to .", msgs[0].Content)
	require.Equal(t, "", msgs[1].Content)
}

func TestRenderIgnoresExtraKeys(t *testing.T) {
	c := translateSet(t)

	msgs, err := c.Render(map[string]string{"a": "x", "b": "y", "text": "z", "unused": "?"})
	require.NoError(t, err)
	require.Equal(t, "translate x to y.", msgs[0].Content)
}

func TestRenderIsDeterministic(t *testing.T) {
	c := translateSet(t)
	fields := map[string]string{"a": "de", "b": "en", "text": "Hallo"}

	first, err := c.Render(fields)
	require.NoError(t, err)
	second, err := c.Render(fields)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderValuesAreNotReparsed(t *testing.T) {
	c, err := CompileSources("echo", []Source{{Role: RoleUser, Content: "<{v}>"}})
	require.NoError(t, err)

	msgs, err := c.Make("{v} and {")
	require.NoError(t, err)
	require.Equal(t, "<{v} and {>", msgs[0].Content)
}

func TestLiteralOnlyRendersVerbatim(t *testing.T) {
	c, err := CompileSources("static", []Source{{Role: RoleSystem, Content: "Be brief."}})
	require.NoError(t, err)
	require.Empty(t, c.Fields())

	for _, fields := range []map[string]string{nil, {}, {"x": "y"}} {
		msgs, err := c.Render(fields)
		require.NoError(t, err)
		require.Equal(t, []Message{{Role: RoleSystem, Content: "Be brief."}}, msgs)
	}

	msgs, err := c.Make()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestEmptyTemplateRendersEmptyContent(t *testing.T) {
	c, err := CompileSources("blank", []Source{{Role: RoleAssistant, Content: ""}})
	require.NoError(t, err)

	msgs, err := c.Make()
	require.NoError(t, err)
	require.Equal(t, []Message{{Role: RoleAssistant, Content: ""}}, msgs)
}

func TestMakeArity(t *testing.T) {
	c := translateSet(t)

	tests := []struct {
		name   string
		values []string
	}{
		{"too few", []string{"French"}},
		{"none", nil},
		{"too many", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Make(tt.values...)
			require.ErrorIs(t, err, ErrArity)

			var aerr *ArityError
			require.True(t, errors.As(err, &aerr))
			require.Equal(t, 3, aerr.Expected)
			require.Equal(t, len(tt.values), aerr.Actual)
		})
	}
}

func TestMakeEquivalentToRender(t *testing.T) {
	c, err := CompileSources("review", []Source{
		{Role: RoleSystem, Content: "You review {lang} code for {team}."},
		{Role: RoleUser, Content: "Diff:\n{diff}\nFocus on {focus} in {lang}."},
		{Role: RoleAssistant, Content: "Reviewing for {team}."},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"lang", "team", "diff", "focus"}, c.Fields())

	values := []string{"Go", "infra", "+x := 1", "errors"}
	fromMake, err := c.Make(values...)
	require.NoError(t, err)

	fields := make(map[string]string)
	for i, f := range c.Fields() {
		fields[f] = values[i]
	}
	fromRender, err := c.Render(fields)
	require.NoError(t, err)
	require.Equal(t, fromRender, fromMake)

	bound, err := c.Bind(values...)
	require.NoError(t, err)
	require.Equal(t, fields, bound)
}

func TestCompileSourcesError(t *testing.T) {
	_, err := CompileSources("broken", []Source{
		{Role: RoleSystem, Content: "ok {a}"},
		{Role: RoleUser, Content: "hello {"},
		{Role: RoleUser, Content: "{}"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnterminatedPlaceholder)
	require.Contains(t, err.Error(), `compile "broken": message 2 (user)`)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, 6, perr.Offset)
}

func TestCompileSourcesUnknownRole(t *testing.T) {
	_, err := CompileSources("roles", []Source{{Role: "narrator", Content: "x"}})
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestMustCompilePanics(t *testing.T) {
	require.Panics(t, func() {
		MustCompile("bad", Source{Role: RoleUser, Content: "{oops"})
	})
	require.NotPanics(t, func() {
		MustCompile("good", Source{Role: RoleUser, Content: "{fine}"})
	})
}

func TestCompileCopiesInput(t *testing.T) {
	a, err := User("{a}")
	require.NoError(t, err)
	b, err := User("{b}")
	require.NoError(t, err)

	set := []MessageTemplate{a}
	c := Compile("copy", set)
	set[0] = b

	require.Equal(t, []string{"a"}, c.Fields())
	fields := c.Fields()
	fields[0] = "mutated"
	require.Equal(t, []string{"a"}, c.Fields())
	require.True(t, c.HasField("a"))
	require.False(t, c.HasField("b"))
}

func TestCompiledConcurrentUse(t *testing.T) {
	c := translateSet(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("msg-%d", i)
			msgs, err := c.Make("x", "y", text)
			if err != nil {
				errs <- err
				return
			}
			if msgs[1].Content != text {
				errs <- fmt.Errorf("got %q, want %q", msgs[1].Content, text)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
