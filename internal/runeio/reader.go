package runeio

import (
	"bufio"
	"io"
)

// Reader reads bytes and runes from the same position.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns r itself when it already reads runes, and otherwise
// buffers it; all reads then go through the buffer.
func NewReader(r io.Reader) Reader {
	if rr, ok := r.(Reader); ok {
		return rr
	}
	return bufio.NewReader(r)
}
