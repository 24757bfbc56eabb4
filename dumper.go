package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

// vmDumper writes a human readable snapshot of a VM: its mode, stacks,
// frames, and the words of its definition target; allBooks extends the
// word listing to every book on the pile.
type vmDumper struct {
	vm  *VM
	out io.Writer

	allBooks bool
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  mode: %v\n", dump.vm.mode)
	fmt.Fprintf(dump.out, "  pile: %v\n", dump.vm.pile.Titles())
	if book := dump.vm.book; book != nil {
		fmt.Fprintf(dump.out, "  book: %v\n", book.Title)
	}

	dump.dumpStacks()
	dump.dumpFrames()
	dump.dumpBooks()
}

func (dump *vmDumper) dumpStacks() {
	fmt.Fprintf(dump.out, "  data: %v\n", formatStack(&dump.vm.data))
	fmt.Fprintf(dump.out, "  aux: %v\n", formatStack(&dump.vm.aux))
}

func (dump *vmDumper) dumpFrames() {
	trace := dump.vm.backtrace(0)
	if len(trace) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Frames\n")
	var buf bytes.Buffer
	for i, tf := range trace {
		frame, _ := dump.vm.frames.Get(i)
		buf.WriteString("  ")
		buf.WriteString(tf.String())
		if len(frame.locals) > 0 {
			names := make([]string, 0, len(frame.locals))
			for name := range frame.locals {
				names = append(names, name)
			}
			sort.Strings(names)
			buf.WriteString(" {")
			for _, name := range names {
				buf.WriteByte(' ')
				buf.WriteString(name)
				buf.WriteByte('=')
				buf.WriteString(formatValue(frame.locals[name]))
			}
			buf.WriteString(" }")
		}
		buf.WriteByte('\n')
		buf.WriteTo(dump.out)
	}
}

func (dump *vmDumper) dumpBooks() {
	if !dump.allBooks {
		if book := dump.vm.book; book != nil {
			dump.dumpBook(book)
		}
		return
	}
	for i := 0; i < dump.vm.pile.Depth(); i++ {
		book, _ := dump.vm.pile.Get(i)
		dump.dumpBook(book)
	}
}

func (dump *vmDumper) dumpBook(book *Book) {
	fmt.Fprintf(dump.out, "# Book %v\n", book.Title)
	var buf bytes.Buffer
	for _, token := range book.Tokens() {
		word := book.Get(token)
		buf.WriteString("  ")
		dump.formatWord(&buf, word)
		buf.WriteByte('\n')
		buf.WriteTo(dump.out)
	}
}

// formatWord writes a word's header and cells; a "|" marks the boundary
// between a word's data head and its body.
func (dump *vmDumper) formatWord(buf fmtBuf, word *Word) {
	buf.WriteString(": ")
	buf.WriteString(word.Token)
	buf.WriteByte(' ')
	buf.WriteString(word.Type.String())
	if word.Immediate {
		buf.WriteString(" immediate")
	}
	cells := word.cells.Items()
	for i, cell := range cells {
		if i == word.Boundary && i > 0 {
			buf.WriteString(" |")
		}
		buf.WriteByte(' ')
		dump.formatCell(buf, cell)
	}
	if word.Type == Native && len(cells) == 0 {
		buf.WriteString(" <native>")
	}
}

// formatCell writes tokens bare; literal values are marked with # so that
// a compiled number can be told apart from a token that spells one.
func (dump *vmDumper) formatCell(buf fmtBuf, cell Value) {
	if token, ok := cell.(Token); ok {
		buf.WriteString(string(token))
		return
	}
	buf.WriteByte('#')
	buf.WriteString(formatValue(cell))
}

// formatStack is stackState for dumps, where cycles are elided rather than
// failing.
func formatStack(s *Stack[Value]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%d>", s.Depth())
	for _, v := range s.Cells() {
		sb.WriteByte(' ')
		sb.WriteString(formatValue(v))
	}
	return sb.String()
}
