package main

import (
	"errors"
	"fmt"
)

// WordKind distinguishes host-coded words from threaded ones.
type WordKind uint8

const (
	Interpreted WordKind = iota
	Native
)

func (wk WordKind) String() string {
	switch wk {
	case Interpreted:
		return "Indirect"
	case Native:
		return "Direct"
	}
	return fmt.Sprintf("WordKind(%d)", uint8(wk))
}

var (
	// ErrNativeSource is returned when finalizing a native word that has no
	// statically registered routine; native words cannot be compiled from
	// source at runtime.
	ErrNativeSource = errors.New("native words cannot be defined from source")

	errFinalized   = errors.New("already finalized")
	errUnfinalized = errors.New("not finalized")
)

// Word is a dictionary entry. Cells before Boundary form a data head;
// cells from Boundary on are the code body of an interpreted word, or the
// source of a native one.
type Word struct {
	Token     string
	Type      WordKind
	Immediate bool
	Boundary  int

	cells   *List
	routine Routine
	final   bool
}

func NewWord(typ WordKind, token string) *Word {
	return &Word{Token: token, Type: typ, cells: NewList()}
}

// newNative returns a finalized native word around routine.
func newNative(token string, routine Routine) *Word {
	word := NewWord(Native, token)
	word.routine = routine
	word.final = true
	return word
}

func (*Word) Kind() Kind { return KindWord }

func (word *Word) String() string { return word.Token }

// Cells returns the word's cell list; it is shared, not copied.
func (word *Word) Cells() *List { return word.cells }

func (word *Word) Append(cells ...Value) { word.cells.Append(cells...) }

func (word *Word) Routine() Routine { return word.routine }

// Finalize seals a native word; interpreted words need no finalization.
func (word *Word) Finalize() error {
	if word.Type != Native {
		return nil
	}
	if word.final {
		return fmt.Errorf("%v: %w", word.Token, errFinalized)
	}
	if word.routine == nil {
		return fmt.Errorf("%v: %w", word.Token, ErrNativeSource)
	}
	word.final = true
	return nil
}

// Frame is the activation record of one word invocation.
type Frame struct {
	Word   *Word
	Offset int
	locals map[string]Value
}

func (frame *Frame) Bind(name string, v Value) {
	if frame.locals == nil {
		frame.locals = make(map[string]Value)
	}
	frame.locals[name] = v
}

func (frame *Frame) Local(name string) (Value, bool) {
	v, ok := frame.locals[name]
	return v, ok
}

// done reports whether the frame has run off the end of its word.
func (frame *Frame) done() bool { return frame.Offset >= frame.Word.cells.Len() }

// advance returns the cell under the counter, moving past it.
func (frame *Frame) advance() Value {
	cell := frame.Word.cells.At(frame.Offset)
	frame.Offset++
	return cell
}

func (word *Word) run(vm *VM, frame *Frame) {
	frame.Offset = word.Boundary
	switch word.Type {
	case Native:
		if !word.final || word.routine == nil {
			vm.halt(fmt.Errorf("%v: %w", word.Token, errUnfinalized))
		}
		word.routine(vm)
	default:
		for !frame.done() {
			vm.evaluateCell(frame.advance())
		}
	}
}
