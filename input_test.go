package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestInputTokens(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
		want []string
	}{
		{name: "empty"},
		{name: "blank", text: " \t\n "},
		{name: "words", text: "1 2 +", want: []string{"1", "2", "+"}},
		{name: "mixed space", text: "\ta\n\n b\t", want: []string{"a", "b"}},
		{name: "string", text: `"hello world" .`, want: []string{`"hello world"`, "."}},
		{name: "empty string", text: `"" x`, want: []string{`""`, "x"}},
		{name: "string runs into word", text: `"a b"c d`, want: []string{`"a b"`, "c", "d"}},
		{name: "unterminated string", text: `"abc def`, want: []string{`"abc`, "def"}},
		{name: "lone quote", text: `" x`, want: []string{`"`, "x"}},
		{name: "string across lines", text: "\"a\nb\" c", want: []string{"\"a\nb\"", "c"}},
		{name: "carriage return is not space", text: "a\rb c", want: []string{"a\rb", "c"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := NewInput("test", tc.text).Tokens()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected tokens (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputCursor(t *testing.T) {
	in := NewInput("test", "a \\ skip me\nb  ")
	assert.Equal(t, "test", in.Name)
	assert.False(t, in.Done())

	tok, ok := in.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", tok)
	assert.Equal(t, 1, in.Offset())

	tok, _ = in.Next()
	assert.Equal(t, `\`, tok)
	in.SkipLine()
	assert.Equal(t, []string{"b"}, in.Tokens())
	assert.True(t, in.Done())

	_, ok = in.Next()
	assert.False(t, ok)

	in = NewInput("test", "x \\ no newline")
	in.Next()
	in.Next()
	in.SkipLine()
	assert.True(t, in.Done())
	assert.Equal(t, len(in.Text()), in.Offset())
}

func TestDequote(t *testing.T) {
	for token, want := range map[string]string{
		`"abc"`: "abc",
		`""`:    "",
		`"`:     "",
		`abc`:   "abc",
		`"abc`:  `"abc`,
	} {
		assert.Equal(t, want, dequote(token), "dequote(%q)", token)
	}
}
