package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jacoelho/jindex/internal/config"
	"github.com/jacoelho/jindex/internal/exit"
)

type harness struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	code   int
}

func runWith(t *testing.T, input string, args ...string) *harness {
	t.Helper()

	cfg, err := config.Parse(append([]string{"jindex"}, args...))
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}

	h := &harness{}
	r := New(cfg)
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&h.stdout)
	r.SetErrorOutput(&h.stderr)
	h.code = r.Run(context.Background())
	return h
}

func (h *harness) lines() []string {
	out := strings.Split(strings.TrimSuffix(h.stdout.String(), "\n"), "\n")
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	slices.Sort(out)
	return out
}

func TestRunFormats(t *testing.T) {
	t.Parallel()

	const input = `{"a":1,"c":["x","y"]}`

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "gron",
			args: nil,
			want: []string{`json.a = 1;`, `json.c[0] = "x";`, `json.c[1] = "y";`},
		},
		{
			name: "json pointer",
			args: []string{"--format", "json_pointer"},
			want: []string{"/a\t1", "/c/0\t\"x\"", "/c/1\t\"y\""},
		},
		{
			name: "json lines",
			args: []string{"--format", "json"},
			want: []string{
				`{"path_components":["a"],"value":1}`,
				`{"path_components":["c",0],"value":"x"}`,
				`{"path_components":["c",1],"value":"y"}`,
			},
		},
		{
			name: "all with custom root",
			args: []string{"--all", "--root", "doc"},
			want: []string{
				`doc = {"a":1,"c":["x","y"]};`,
				`doc.a = 1;`,
				`doc.c = ["x","y"];`,
				`doc.c[0] = "x";`,
				`doc.c[1] = "y";`,
			},
		},
		{
			name: "select",
			args: []string{"--select", "$.c", "--format", "json_pointer", "--separator", "="},
			want: []string{`/c/0="x"`, `/c/1="y"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := runWith(t, input, tt.args...)
			if h.code != exit.CodeSuccess {
				t.Fatalf("Run() = %d, stderr: %s", h.code, h.stderr.String())
			}

			want := slices.Clone(tt.want)
			slices.Sort(want)
			if got := h.lines(); !slices.Equal(got, want) {
				t.Errorf("lines = %q, want %q", got, want)
			}
		})
	}
}

func TestRunScalarRoot(t *testing.T) {
	t.Parallel()

	h := runWith(t, "5")
	if h.code != exit.CodeFailure {
		t.Fatalf("Run() = %d, want %d", h.code, exit.CodeFailure)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "input value must be either a JSON array or JSON object") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestRunMalformedInput(t *testing.T) {
	t.Parallel()

	h := runWith(t, `{"a":`)
	if h.code != exit.CodeFailure {
		t.Fatalf("Run() = %d, want %d", h.code, exit.CodeFailure)
	}
	if !strings.HasPrefix(h.stderr.String(), "Error: parse json input") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestRunInterrupted(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]string{"jindex"})
	if err != nil {
		t.Fatal(err)
	}

	pr, pw := io.Pipe()
	defer pw.Close()

	var stderr bytes.Buffer
	r := New(cfg)
	r.SetInput(pr)
	r.SetOutput(io.Discard)
	r.SetErrorOutput(&stderr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != exit.CodeInterrupted {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeInterrupted)
	}
	if stderr.String() != "Interrupted\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "data.yaml")
	output := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(input, []byte("b: 2\na:\n  - true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := runWith(t, "", "--output", output, input)
	if h.code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr: %s", h.code, h.stderr.String())
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", h.stdout.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	slices.Sort(got)
	want := []string{`json.a[0] = true;`, `json.b = 2;`}
	if !slices.Equal(got, want) {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	h := runWith(t, "", filepath.Join(t.TempDir(), "missing.json"))
	if h.code != exit.CodeFailure {
		t.Fatalf("Run() = %d, want %d", h.code, exit.CodeFailure)
	}
	if !strings.Contains(h.stderr.String(), "open input") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestRunMsgPackInput(t *testing.T) {
	t.Parallel()

	data, err := msgpack.Marshal(map[string]any{"k": []any{"v"}})
	if err != nil {
		t.Fatal(err)
	}

	h := runWith(t, string(data), "--input-format", "msgpack", "--format", "json_pointer")
	if h.code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr: %s", h.code, h.stderr.String())
	}
	if got := h.lines(); !slices.Equal(got, []string{"/k/0\t\"v\""}) {
		t.Errorf("lines = %q", got)
	}
}

func TestRunAssembleRoundTrip(t *testing.T) {
	t.Parallel()

	const input = `{"a":1,"c":["x",{"d":null,"e/f":[]}],"g":{}}`

	records := runWith(t, input, "--format", "json")
	if records.code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr: %s", records.code, records.stderr.String())
	}

	h := runWith(t, records.stdout.String(), "--assemble")
	if h.code != exit.CodeSuccess {
		t.Fatalf("Run(--assemble) = %d, stderr: %s", h.code, h.stderr.String())
	}

	const want = input + "\n"
	if h.stdout.String() != want {
		t.Errorf("assembled = %q, want %q", h.stdout.String(), want)
	}
}

func TestRunDebug(t *testing.T) {
	t.Parallel()

	h := runWith(t, `[1,[2]]`, "--debug")
	if h.code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr: %s", h.code, h.stderr.String())
	}
	if got := h.stderr.String(); got != "nodes=4 records=2 max_depth=2\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestColorEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		mode     config.ColorMode
		terminal bool
		want     bool
	}{
		{name: "always", format: "gron", mode: config.ColorAlways, want: true},
		{name: "never", format: "gron", mode: config.ColorNever, terminal: true, want: false},
		{name: "json is never coloured", format: "json", mode: config.ColorAlways, want: false},
		{name: "auto without terminal", format: "json_pointer", mode: config.ColorAuto, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New(&config.Config{Format: tt.format, Color: tt.mode})
			r.terminal = func(io.Writer) bool { return tt.terminal }
			if got := r.colorEnabled(); got != tt.want {
				t.Errorf("colorEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunColorAlways(t *testing.T) {
	t.Parallel()

	h := runWith(t, `{"a":"b"}`, "--color", "always")
	if h.code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr: %s", h.code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "\x1b[") {
		t.Errorf("stdout = %q, want ANSI escapes", h.stdout.String())
	}
}
