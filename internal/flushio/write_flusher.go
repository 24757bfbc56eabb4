package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher returns w itself if it is already a WriteFlusher, w with
// a no-op Flush if it is io.Discard or an in-memory buffer, and otherwise a
// bufio.Writer around w.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if wf, is := w.(WriteFlusher); is {
		return wf
	}
	if w == io.Discard || isBuffer(w) {
		return nopFlusher{w}
	}
	return bufio.NewWriter(w)
}

// isBuffer matches types like bytes.Buffer and strings.Builder.
func isBuffer(w io.Writer) bool {
	_, is := w.(interface {
		Len() int
		Grow(n int)
		Reset()
	})
	return is
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }
