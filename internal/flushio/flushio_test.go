package flushio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriteFlusher(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, nopFlusher{&buf}, NewWriteFlusher(&buf))

	var sb strings.Builder
	assert.Equal(t, nopFlusher{&sb}, NewWriteFlusher(&sb))
	assert.Equal(t, nopFlusher{io.Discard}, NewWriteFlusher(io.Discard))

	bw := bufio.NewWriter(&buf)
	assert.Same(t, bw, NewWriteFlusher(bw))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	wf := NewWriteFlusher(f)
	assert.IsType(t, &bufio.Writer{}, wf)

	_, err = io.WriteString(wf, "buffered")
	require.NoError(t, err)
	info, _ := f.Stat()
	assert.Equal(t, int64(0), info.Size())
	require.NoError(t, wf.Flush())
	info, _ = f.Stat()
	assert.Equal(t, int64(len("buffered")), info.Size())
}

func TestWriteFlushers(t *testing.T) {
	assert.Nil(t, WriteFlushers())
	assert.Nil(t, WriteFlushers(nil, nil))

	var a, b bytes.Buffer
	wa := NewWriteFlusher(&a)
	assert.Equal(t, wa, WriteFlushers(nil, wa))

	ab := WriteFlushers(wa, NewWriteFlusher(&b))
	var c bytes.Buffer
	abc := WriteFlushers(ab, NewWriteFlusher(&c))
	assert.Len(t, abc, 3, "nested combinations flatten")

	n, err := io.WriteString(abc, "hi")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, abc.Flush())
	assert.Equal(t, "hi", a.String())
	assert.Equal(t, "hi", b.String())
	assert.Equal(t, "hi", c.String())
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }
func (shortWriter) Flush() error                { return errors.New("flush failed") }

func TestWriteFlushersErrors(t *testing.T) {
	var after bytes.Buffer
	wf := WriteFlushers(shortWriter{}, NewWriteFlusher(&after))

	_, err := io.WriteString(wf, "abcd")
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, 0, after.Len(), "writing stops at the first failure")

	assert.EqualError(t, wf.Flush(), "flush failed")
}
