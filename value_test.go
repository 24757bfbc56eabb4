package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	for _, tc := range []struct {
		v    Value
		want bool
	}{
		{nil, false},
		{Undefined, false},
		{Boolean(false), false},
		{Boolean(true), true},
		{Number(0), false},
		{Number(math.NaN()), false},
		{Number(-1), true},
		{Text(""), false},
		{Text("0"), true},
		{NewList(), true},
		{NewMapping(), true},
	} {
		assert.Equal(t, tc.want, truthy(tc.v), "truthy(%v)", formatValue(tc.v))
	}
}

func TestEqual(t *testing.T) {
	list := NewList(Number(1))
	word := NewWord(Interpreted, "W")
	assert.True(t, equal(Number(1), Number(1)))
	assert.False(t, equal(Number(1), Text("1")))
	assert.True(t, equal(nil, Undefined))
	assert.True(t, equal(list, list))
	assert.False(t, equal(list, NewList(Number(1))))
	assert.True(t, equal(word, word))
	assert.False(t, equal(Number(math.NaN()), Number(math.NaN())))

	var r Routine = func(*VM) {}
	assert.False(t, equal(r, r))
}

func TestSliceBounds(t *testing.T) {
	for _, tc := range []struct {
		length, start, end int
		wantStart, wantEnd int
	}{
		{5, 0, 5, 0, 5},
		{5, 1, 3, 1, 3},
		{5, -2, 5, 3, 5},
		{5, -9, 2, 0, 2},
		{5, 2, 99, 2, 5},
		{5, 4, 1, 4, 4},
		{0, -1, 3, 0, 0},
	} {
		start, end := sliceBounds(tc.length, tc.start, tc.end)
		assert.Equal(t, tc.wantStart, start, "start of (%v, %v, %v)", tc.length, tc.start, tc.end)
		assert.Equal(t, tc.wantEnd, end, "end of (%v, %v, %v)", tc.length, tc.start, tc.end)
	}
}

func TestList(t *testing.T) {
	l := NewList(Number(1), Number(2), Number(3), Number(4))
	assert.Equal(t, Number(2), l.At(1))
	assert.Equal(t, Undefined, l.At(9))
	assert.Equal(t, 2, l.Index(Number(3)))
	assert.Equal(t, -1, l.Index(Text("3")))

	removed := l.Splice(1, 2)
	assert.Equal(t, "[2,3]", formatValue(removed))
	assert.Equal(t, "[1,4]", formatValue(l))

	assert.Equal(t, "[4]", formatValue(l.Slice(-1, l.Len())))
	assert.Equal(t, "[1,4]", formatValue(l), "Slice leaves the list intact")

	l.Set(4, Text("x"))
	assert.Equal(t, `[1,4,null,null,"x"]`, formatValue(l))
	assert.Equal(t, Text("x"), l.Pop())
	assert.Equal(t, 4, l.Len())

	l = NewList(Number(10), Number(9), Number(1))
	l.Sort()
	assert.Equal(t, "[1,10,9]", formatValue(l))
	l.Reverse()
	assert.Equal(t, "[9,10,1]", formatValue(l))

	l = NewList(Undefined, Text("b"), Number(2), Undefined, Text("a"))
	l.Sort()
	assert.Equal(t, `[2,"a","b",null,null]`, formatValue(l))

	assert.Equal(t, Undefined, NewList().Pop())
}

func TestMapping(t *testing.T) {
	m := NewMapping()
	m.Set("b", Number(2))
	m.Set("a", Number(1))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Number(1), v)
	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestFormatNumber(t *testing.T) {
	for n, want := range map[float64]string{
		0:             "0",
		-3:            "-3",
		2.5:           "2.5",
		1e20:          "100000000000000000000",
		1e21:          "1e+21",
		1.5e300:       "1.5e+300",
		0.000001:      "0.000001",
		0.0000001:     "1e-7",
		math.Inf(1):   "Infinity",
		math.Inf(-1):  "-Infinity",
		123456.789:    "123456.789",
		-0.0000000025: "-2.5e-9",
	} {
		assert.Equal(t, want, formatNumber(Number(n)), "formatNumber(%v)", n)
	}
	assert.Equal(t, "NaN", formatNumber(Number(math.NaN())))
}

func TestFormatValue(t *testing.T) {
	m := NewMapping()
	m.Set("list", NewList(Number(1), Undefined, Text("a\"b")))
	m.Set("gone", Undefined)
	m.Set("yes", Boolean(true))

	for _, tc := range []struct {
		v    Value
		want string
	}{
		{Undefined, "undefined"},
		{Number(math.NaN()), "null"},
		{Text("a\nb"), `"a\nb"`},
		{NewList(), "[]"},
		{NewList(NewList()), "[[]]"},
		{m, `{"list":[1,null,"a\"b"],"yes":true}`},
		{NewWord(Native, "DUP"), `{"token":"DUP","type":"Direct"}`},
	} {
		assert.Equal(t, tc.want, formatValue(tc.v))
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "undefined", stringify(Undefined))
	assert.Equal(t, "1,,b", stringify(NewList(Number(1), Undefined, Text("b"))))
	assert.Equal(t, "1,2,3", stringify(NewList(Number(1), NewList(Number(2), Number(3)))))
	assert.Equal(t, "[object Object]", stringify(NewMapping()))
	assert.Equal(t, "SQ", stringify(NewWord(Interpreted, "SQ")))
	assert.Equal(t, "false", keyOf(Boolean(false)))
}

func TestCyclicValues(t *testing.T) {
	l := NewList(Number(1))
	l.Append(l)
	m := NewMapping()
	m.Set("self", m)
	m.Set("list", l)

	assert.Equal(t, "[1,[...]]", formatValue(l))
	assert.Equal(t, `{"list":[1,[...]],"self":{...}}`, formatValue(m))

	_, err := encodeValue(l)
	assert.True(t, errors.Is(err, ErrCyclicValue))
	_, err = encodeValue(m)
	assert.True(t, errors.Is(err, ErrCyclicValue))

	assert.Equal(t, "1,", stringify(l))
	assert.Equal(t, "0,1,,2", stringify(NewList(Number(0), l, Number(2))), "an outer list may hold a cyclic one")

	shared := NewList(Number(7))
	s, err := encodeValue(NewList(shared, shared))
	assert.NoError(t, err)
	assert.Equal(t, "[[7],[7]]", s, "a shared list is not a cycle")
}
