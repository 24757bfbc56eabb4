package runeio

import (
	"io"
)

// WriteVisibleRune writes tab and newline as themselves, any other C0 or C1
// control in its caret form, and everything else in utf8 form; the output
// can not drive a terminal.
func WriteVisibleRune(w io.Writer, r rune) (n int, err error) {
	if r != '\t' && r != '\n' {
		if caret := CaretForm(r); caret != "" {
			return io.WriteString(w, caret)
		}
	}
	return writeRune(w, r)
}

// WriteVisibleString writes a string using WriteVisibleRune for each rune.
func WriteVisibleString(w io.Writer, s string) (n int, err error) {
	return writeEach(w, s, WriteVisibleRune)
}

func writeEach(w io.Writer, s string, write func(io.Writer, rune) (int, error)) (n int, err error) {
	for _, r := range s {
		m, err := write(w, r)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func writeRune(w io.Writer, r rune) (n int, err error) {
	type runeWriter interface {
		WriteRune(r rune) (n int, err error)
	}
	if r < 0x80 {
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
	}
	if rw, ok := w.(runeWriter); ok {
		return rw.WriteRune(r)
	}
	if sw, ok := w.(io.StringWriter); ok {
		return sw.WriteString(string(r))
	}
	return w.Write([]byte(string(r)))
}
