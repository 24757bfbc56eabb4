package fileinput

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/eczema/internal/runeio"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune and line reading through a Queue of one
// or more input streams. Both the current and last scanned lines are
// tracked to facilitate user feedback.
type Input struct {
	Queue []io.Reader
	Last  Line
	Scan  Line

	rr  io.RuneReader
	cur io.Reader
}

// ReadRune reads one rune from the current input stream, appending it into
// the current Scan line, and rolling Scan over to Last after line feed.
// Streams are read in Queue order; io.EOF is only returned after the last.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if r == '\n' {
				in.nextLine()
			} else {
				in.Scan.WriteRune(r)
			}
			return r, n, nil
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return 0, 0, err
		}
		if in.Scan.Len() > 0 {
			in.nextLine()
		}
		in.closeCurrent()
	}
}

// ReadLine reads through the next line feed, returning the line without
// it. A final line lacking a line feed is still returned, and lines never
// span two streams; io.EOF is returned once every stream is exhausted.
func (in *Input) ReadLine() (string, error) {
	var sb strings.Builder
	for {
		if in.rr == nil && !in.nextIn() {
			return "", io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if r == '\n' {
				in.nextLine()
				return sb.String(), nil
			}
			in.Scan.WriteRune(r)
			sb.WriteRune(r)
			continue
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			return "", err
		}
		if in.Scan.Len() > 0 {
			in.nextLine()
		}
		in.closeCurrent()
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
}

// Location returns where the last complete line was read from.
func (in *Input) Location() Location { return in.Last.Location }

// Close closes the current stream and any queued ones that are closers.
func (in *Input) Close() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.rr, in.cur = nil, nil
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) closeCurrent() {
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.rr, in.cur = nil, nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	in.rr = runeio.NewReader(r)
	in.Scan.Reset()
	in.Scan.Name = nameOf(r)
	in.Scan.Line = 1
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
