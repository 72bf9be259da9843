package sink

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestSinkBuffersUntilClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(&buf)

	if _, err := io.WriteString(s, "a\nb\n"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("destination written before flush: %q", buf.String())
	}
	if s.Lines() != 2 {
		t.Errorf("Lines() = %d, want 2", s.Lines())
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a\nb\n" {
		t.Errorf("destination = %q", buf.String())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := s.Write([]byte("x")); !errors.Is(err, ErrIO) {
		t.Errorf("Write() after Close = %v, want ErrIO", err)
	}
}

func TestSinkStickyError(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("disk full")
	s := New(failingWriter{err: diskFull})

	big := bytes.Repeat([]byte("x"), BufferSize+1)
	_, err := s.Write(big)
	if !errors.Is(err, ErrIO) || !errors.Is(err, diskFull) {
		t.Fatalf("Write() error = %v", err)
	}

	_, again := s.Write([]byte("y"))
	if again != err {
		t.Errorf("second Write() = %v, want the first error", again)
	}
}

func TestScopeFlushes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Scope(New(&buf), func(w io.Writer) error {
		_, err := io.WriteString(w, "line\n")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "line\n" {
		t.Errorf("destination = %q", buf.String())
	}
}

func TestScopeFlushesOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	var buf bytes.Buffer
	err := Scope(New(&buf), func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial\n")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Scope() error = %v, want boom", err)
	}
	if buf.String() != "partial\n" {
		t.Errorf("destination = %q", buf.String())
	}
}

func TestScopeFlushesOnPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		_ = Scope(New(&buf), func(w io.Writer) error {
			_, _ = io.WriteString(w, "before panic\n")
			panic("boom")
		})
	}()

	if buf.String() != "before panic\n" {
		t.Errorf("destination = %q", buf.String())
	}
}

func TestScopeReportsFlushFailure(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("disk full")
	err := Scope(New(failingWriter{err: diskFull}), func(w io.Writer) error {
		_, err := io.WriteString(w, "small\n")
		return err
	})
	if !errors.Is(err, diskFull) {
		t.Fatalf("Scope() error = %v, want disk full", err)
	}
	if strings.Count(err.Error(), "disk full") != 1 {
		t.Errorf("Scope() error repeats the failure: %v", err)
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "out.txt")
	s, err := Create(file)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(s, "data\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data\n" {
		t.Errorf("file = %q", got)
	}
}

func TestCreateFailure(t *testing.T) {
	t.Parallel()

	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.txt"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Create() error = %v, want ErrIO", err)
	}
}
