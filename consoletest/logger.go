// Copyright © 2018 The ELPS authors

// Package consoletest provides helpers for testing code that logs through
// the console package.
package consoletest

import (
	"bytes"
	"io"
	"testing"

	"github.com/hashicorp/go-hclog"
)

// Writer forwards complete lines to a test log.
type Writer struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a Writer logging to t.
func NewWriter(t testing.TB) *Writer {
	return &Writer{
		t: t,
	}
}

func (w *Writer) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			return len(b), nil
		}
		w.t.Log(string(w.buf[:i])) // slice does not include \n
		w.buf = w.buf[i+1:]
	}
}

// Flush logs any incomplete final line.
func (w *Writer) Flush() {
	if len(w.buf) == 0 {
		return
	}
	w.t.Log(string(w.buf))
	w.buf = nil
}

// HCLog returns an hclog logger writing to t at trace level.  Buffered
// output is flushed when the test ends.
func HCLog(t testing.TB) hclog.Logger {
	w := NewWriter(t)
	t.Cleanup(w.Flush)
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: w,
	})
}
