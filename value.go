package main

import (
	"math"
	"sort"
)

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNumber
	KindText
	KindBoolean
	KindList
	KindMapping
	KindNative
	KindWord
	KindToken
)

var kindNames = [...]string{
	"undefined",
	"number",
	"text",
	"boolean",
	"list",
	"mapping",
	"native",
	"word",
	"token",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Value is anything that may be carried on a stack or stored in a word's
// cells. Lists and mappings are shared by reference: every alias observes
// every mutation.
type Value interface {
	Kind() Kind
}

type (
	// Number is the only numeric type; integers are whole floats.
	Number float64

	// Text is a string value, as produced by a quoted literal.
	Text string

	// Boolean is produced by TRUE, FALSE and the comparison words.
	Boolean bool

	// Token is a raw source token stored in a word's cells; it is resolved
	// when the threaded loop reaches it, not when it is compiled.
	Token string

	// Routine is the host code behind a native word.
	Routine func(vm *VM)

	undefined struct{}
)

// Undefined is the value of missing keys, empty tops and unknown ticks.
var Undefined Value = undefined{}

func (Number) Kind() Kind    { return KindNumber }
func (Text) Kind() Kind      { return KindText }
func (Boolean) Kind() Kind   { return KindBoolean }
func (Token) Kind() Kind     { return KindToken }
func (Routine) Kind() Kind   { return KindNative }
func (undefined) Kind() Kind { return KindUndefined }

func kindOf(v Value) Kind {
	if v == nil {
		return KindUndefined
	}
	return v.Kind()
}

func truthy(v Value) bool {
	switch v := v.(type) {
	case nil, undefined:
		return false
	case Boolean:
		return bool(v)
	case Number:
		return v != 0 && !math.IsNaN(float64(v))
	case Text:
		return v != ""
	case Token:
		return v != ""
	}
	return true
}

// equal is strict equality: primitives compare by value, lists, mappings
// and words by identity. Routines never compare equal.
func equal(a, b Value) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindUndefined:
		return true
	case KindNative:
		return false
	}
	return a == b
}

// List is an ordered, shared, mutable sequence of values.
type List struct {
	items []Value
}

func NewList(items ...Value) *List {
	return &List{items: items}
}

func (*List) Kind() Kind { return KindList }

func (l *List) Len() int { return len(l.items) }

// At returns the i-th item, or Undefined when i is out of range.
func (l *List) At(i int) Value {
	if i < 0 || i >= len(l.items) {
		return Undefined
	}
	if v := l.items[i]; v != nil {
		return v
	}
	return Undefined
}

// Set stores v at i, padding with Undefined when i is past the end.
func (l *List) Set(i int, v Value) {
	if i < 0 {
		return
	}
	for len(l.items) <= i {
		l.items = append(l.items, Undefined)
	}
	l.items[i] = v
}

func (l *List) Append(vs ...Value) { l.items = append(l.items, vs...) }

// Pop removes and returns the last item, or Undefined when empty.
func (l *List) Pop() Value {
	i := len(l.items) - 1
	if i < 0 {
		return Undefined
	}
	v := l.items[i]
	l.items[i] = nil
	l.items = l.items[:i]
	return v
}

// Items returns a copy of the list contents.
func (l *List) Items() []Value {
	return append([]Value(nil), l.items...)
}

func (l *List) Index(v Value) int {
	for i, item := range l.items {
		if equal(item, v) {
			return i
		}
	}
	return -1
}

func (l *List) Reverse() {
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
}

// Sort orders items by their text form, so numbers sort as digits and
// 10 comes before 9; undefined items go last.
func (l *List) Sort() {
	keys := make(map[int]string, len(l.items))
	for i, item := range l.items {
		if kindOf(item) != KindUndefined {
			keys[i] = stringify(item)
		}
	}
	order := make([]int, len(l.items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ki, iok := keys[order[i]]
		kj, jok := keys[order[j]]
		if !iok || !jok {
			return iok && !jok
		}
		return ki < kj
	})
	sorted := make([]Value, len(l.items))
	for i, at := range order {
		sorted[i] = l.items[at]
	}
	copy(l.items, sorted)
}

// Splice removes count items starting at start, returning them as a new
// list; bounds follow sliceBounds.
func (l *List) Splice(start, count int) *List {
	start, _ = sliceBounds(len(l.items), start, len(l.items))
	end := start + count
	if count < 0 {
		end = start
	} else if end > len(l.items) {
		end = len(l.items)
	}
	removed := NewList(append([]Value(nil), l.items[start:end]...)...)
	l.items = append(l.items[:start], l.items[end:]...)
	return removed
}

func (l *List) Slice(start, end int) *List {
	start, end = sliceBounds(len(l.items), start, end)
	return NewList(append([]Value(nil), l.items[start:end]...)...)
}

// sliceBounds resolves negative offsets from the end and clamps both
// offsets into [0, length], with end never before start.
func sliceBounds(length, start, end int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += length
		}
		if i < 0 {
			return 0
		}
		if i > length {
			return length
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if end < start {
		end = start
	}
	return start, end
}

// Mapping is a shared, mutable text-keyed dictionary of values.
type Mapping struct {
	entries map[string]Value
}

func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]Value)}
}

func (*Mapping) Kind() Kind { return KindMapping }

func (m *Mapping) Len() int { return len(m.entries) }

func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *Mapping) Set(key string, v Value) { m.entries[key] = v }

func (m *Mapping) Delete(key string) { delete(m.entries, key) }

// Keys returns the mapping keys in sorted order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
