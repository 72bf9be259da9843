// Package sink provides the buffered output destination of a run.
//
// Buffered bytes are flushed on every exit path: Close flushes before it
// releases the destination, and Scope closes the sink whether the scoped
// function returns normally, returns an error or panics.
package sink

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// BufferSize is the size of the write buffer in front of the destination.
const BufferSize = 64 * 1024

// ErrIO marks failures reading input or writing output.
var ErrIO = errors.New("i/o failure")

// Sink is a buffered writer that remembers its first error. It is owned by a
// single run and is not safe for concurrent use.
type Sink struct {
	buf       *bufio.Writer
	closeFunc func() error
	lines     int
	err       error
	closed    bool
}

// New buffers writes to w. Closing the sink flushes but does not close w.
func New(w io.Writer) *Sink {
	return &Sink{buf: bufio.NewWriterSize(w, BufferSize)}
}

// Create truncates or creates filename. The caller must call Close.
func Create(filename string) (*Sink, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: create output file: %w", ErrIO, err)
	}

	return &Sink{
		buf:       bufio.NewWriterSize(file, BufferSize),
		closeFunc: file.Close,
	}, nil
}

// Write buffers p. After the first failure every call returns that failure.
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.closed {
		s.err = fmt.Errorf("%w: write to closed sink", ErrIO)
		return 0, s.err
	}

	n, err := s.buf.Write(p)
	if err != nil {
		s.err = fmt.Errorf("%w: write output: %w", ErrIO, err)
		return n, s.err
	}

	s.lines += bytes.Count(p, []byte{'\n'})
	return n, nil
}

// Flush pushes buffered bytes to the destination.
func (s *Sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.buf.Flush(); err != nil {
		s.err = fmt.Errorf("%w: flush output: %w", ErrIO, err)
		return s.err
	}
	return nil
}

// Lines is the number of newline characters accepted so far.
func (s *Sink) Lines() int {
	return s.lines
}

// Close flushes and, when the sink owns the destination, closes it. Later
// calls return nil.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.Flush()

	var closeErr error
	if s.closeFunc != nil {
		if err := s.closeFunc(); err != nil {
			closeErr = fmt.Errorf("%w: close output: %w", ErrIO, err)
		}
	}

	return errors.Join(flushErr, closeErr)
}

// Scope runs fn with s and closes s afterwards on every path. A panic in fn
// is re-raised after the flush. A failed write reported by fn is not
// repeated by the flush that follows it.
func Scope(s *Sink, fn func(io.Writer) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = s.Close()
			panic(r)
		}

		closeErr := s.Close()
		switch {
		case err == nil:
			err = closeErr
		case closeErr != nil && (s.err == nil || !errors.Is(err, s.err)):
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(s)
}
