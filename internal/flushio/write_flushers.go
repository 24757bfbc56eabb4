package flushio

import "io"

// WriteFlushers combines any number of WriteFlusher-s into a single one that
// writes into and flushes all of them; nils are skipped, and nested
// combinations are flattened.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	var all teeFlusher
	for _, wf := range wfs {
		if many, ok := wf.(teeFlusher); ok {
			all = append(all, many...)
		} else if wf != nil {
			all = append(all, wf)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type teeFlusher []WriteFlusher

// Write stops at the first writer to fail or write short.
func (wfs teeFlusher) Write(p []byte) (int, error) {
	for _, wf := range wfs {
		n, err := wf.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}

// Flush flushes every writer, returning the first error.
func (wfs teeFlusher) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
