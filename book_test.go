package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	book := NewBook("T")
	assert.Nil(t, book.Latest())

	a1 := NewWord(Interpreted, "A")
	b := NewWord(Interpreted, "B")
	a2 := NewWord(Interpreted, "A")
	book.Add(a1)
	book.Add(b)
	book.Add(a2)

	assert.Same(t, a2, book.Latest())
	assert.Same(t, a2, book.Get("A"))
	assert.Nil(t, book.Get("C"))
	assert.Equal(t, []string{"A", "B"}, book.Tokens(), "redefinition keeps first-definition order")
	assert.Equal(t, 2, book.Len())
}

func TestPile(t *testing.T) {
	var pile Pile
	pile.Label = "pile"
	lower, upper := NewBook("LOWER"), NewBook("UPPER")
	pile.Push(lower, upper)

	shadowed := NewWord(Interpreted, "X")
	lower.Add(shadowed)
	lower.Add(NewWord(Interpreted, "Y"))
	shadow := NewWord(Interpreted, "X")
	upper.Add(shadow)

	assert.Same(t, shadow, pile.Search("X"))
	assert.NotNil(t, pile.Search("Y"))
	assert.Nil(t, pile.Search("Z"))
	assert.Equal(t, []string{"UPPER", "LOWER"}, pile.Titles())

	found, err := pile.Find("LOWER")
	require.NoError(t, err)
	assert.Same(t, lower, found)
	assert.Equal(t, []string{"LOWER", "UPPER"}, pile.Titles())
	assert.Same(t, shadowed, pile.Search("X"))

	_, err = pile.Find("NOPE")
	var notFound BookNotFoundError
	if assert.True(t, errors.As(err, &notFound)) {
		assert.Equal(t, "NOPE", notFound.Title)
	}
	assert.EqualError(t, err, "book not found: NOPE")
}
