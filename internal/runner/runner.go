// Package runner wires configuration, decoding, walking and output into one
// jindex invocation.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/jacoelho/jindex/internal/assemble"
	"github.com/jacoelho/jindex/internal/config"
	"github.com/jacoelho/jindex/internal/decode"
	"github.com/jacoelho/jindex/internal/encode"
	"github.com/jacoelho/jindex/internal/exit"
	"github.com/jacoelho/jindex/internal/format"
	"github.com/jacoelho/jindex/internal/query"
	"github.com/jacoelho/jindex/internal/sink"
	"github.com/jacoelho/jindex/internal/value"
	"github.com/jacoelho/jindex/internal/walk"
)

type Runner struct {
	config    *config.Config
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
	terminal  func(io.Writer) bool
}

func New(cfg *config.Config) *Runner {
	return &Runner{
		config:    cfg,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
		terminal:  isTerminal,
	}
}

// SetInput replaces stdin. It is ignored when the config names a file.
func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run executes one invocation and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	result := exit.FromError(r.errorWriter(), r.run(ctx))
	result.Print()
	return result.ExitCode
}

func (r *Runner) run(ctx context.Context) error {
	doc, err := r.read(ctx)
	if err != nil {
		return err
	}

	out, err := r.openSink()
	if err != nil {
		return err
	}

	return sink.Scope(out, func(w io.Writer) error {
		if r.config.Assemble {
			return writeDocument(w, &doc)
		}
		return r.walk(ctx, w, &doc)
	})
}

type decoded struct {
	doc value.Value
	err error
}

// read decodes the input on its own goroutine so that an interrupt is not
// held up by a blocked read. The goroutine is abandoned on cancellation; the
// process exits right after.
func (r *Runner) read(ctx context.Context) (value.Value, error) {
	in, closeInput, err := r.openInput()
	if err != nil {
		return value.Null(), err
	}

	done := make(chan decoded, 1)
	go func() {
		defer closeInput()

		var res decoded
		if r.config.Assemble {
			res.doc, res.err = assemble.Read(in)
		} else {
			res.doc, res.err = decode.Decode(in, r.config.InputFormat)
		}
		done <- res
	}()

	select {
	case <-ctx.Done():
		return value.Null(), ctx.Err()
	case res := <-done:
		return res.doc, res.err
	}
}

func (r *Runner) openInput() (io.Reader, func(), error) {
	if r.config.InputFile == "" {
		if r.input == nil {
			return nil, nil, fmt.Errorf("%w: no input", sink.ErrIO)
		}
		return r.input, func() {}, nil
	}

	file, err := os.Open(r.config.InputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open input: %w", sink.ErrIO, err)
	}
	return file, func() { _ = file.Close() }, nil
}

func (r *Runner) openSink() (*sink.Sink, error) {
	if r.config.OutputFile != "" {
		return sink.Create(r.config.OutputFile)
	}
	return sink.New(r.payloadWriter()), nil
}

func (r *Runner) walk(ctx context.Context, w io.Writer, doc *value.Value) error {
	if err := walk.CheckRoot(doc); err != nil {
		return err
	}

	opts := r.config.FormatOptions()
	if r.colorEnabled() {
		opts.Palette = format.NewPalette()
	}

	formatter, err := format.New(r.config.Format, opts)
	if err != nil {
		return err
	}
	walker := walk.New(formatter, opts.Mode, w)

	if r.config.Select == "" {
		err = walker.Walk(ctx, doc)
	} else {
		err = r.walkSelected(ctx, walker, doc)
	}

	if r.config.Debug {
		stats := walker.Stats()
		r.logf("nodes=%d records=%d max_depth=%d\n", stats.Nodes, stats.Records, stats.MaxDepth)
	}
	return err
}

func (r *Runner) walkSelected(ctx context.Context, walker *walk.Walker, doc *value.Value) error {
	matches, err := query.Select(doc, r.config.Select)
	if err != nil {
		return err
	}
	if r.config.Debug {
		r.logf("select %s: %d matches\n", r.config.Select, len(matches))
	}

	for _, m := range matches {
		if err := walker.WalkAt(ctx, m.Path, m.Node); err != nil {
			return err
		}
	}
	return nil
}

// colorEnabled applies --color. The json format is never coloured, and auto
// mode colours only a terminal stdout.
func (r *Runner) colorEnabled() bool {
	if r.config.Format == format.NameJSONLine {
		return false
	}

	switch r.config.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return !color.NoColor && r.config.OutputFile == "" && r.terminal(r.output)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func writeDocument(w io.Writer, doc *value.Value) error {
	line, err := encode.NewEncoder().AppendValue(nil, doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	line = append(line, '\n')

	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
