package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/jindex/internal/decode"
	"github.com/jacoelho/jindex/internal/format"
	"github.com/jacoelho/jindex/internal/ident"
	"github.com/jacoelho/jindex/internal/query"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrHelp                  = errors.New("help requested")
	ErrTooManyArguments      = errors.New("at most one input file can be given")
	ErrUnknownFormat         = errors.New("--format must be one of: gron, json_pointer, json")
	ErrUnknownInputFormat    = errors.New("--input-format must be one of: json, yaml, toml, msgpack")
	ErrUnknownColorMode      = errors.New("--color must be one of: auto, always, never")
	ErrUnknownIdentifierRule = errors.New("--identifiers must be one of: unicode, ascii")
	ErrEmptyRootName         = errors.New("--root cannot be empty")
)

// ColorMode decides when gron and json_pointer output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config defines the CLI options of jindex.
type Config struct {
	// InputFile is empty when the document is read from stdin.
	InputFile   string
	InputFormat decode.Format
	Format      string
	Separator   string
	EmitAll     bool
	RootName    string
	Select      string
	Identifiers ident.Rule
	Color       ColorMode
	OutputFile  string
	Assemble    bool
	Debug       bool
}

// Mode is the emission mode selected by --all.
func (c *Config) Mode() format.Mode {
	if c.EmitAll {
		return format.All
	}
	return format.ScalarsOnly
}

// FormatOptions builds the static formatter configuration. The palette is
// left to the caller, which knows whether the destination is a terminal.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	opts.Separator = c.Separator
	opts.RootName = c.RootName
	opts.Mode = c.Mode()
	opts.Identifiers = c.Identifiers
	return opts
}

// Parse parses and validates CLI arguments. Flags and the optional input
// file may appear in any order.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	outputFormat := fs.String("format", format.NameGron, "Output format: gron, json_pointer or json")
	separator := fs.String("separator", format.DefaultSeparator, "Separator between path and value for json_pointer")
	all := fs.Bool("all", false, "Emit composite values as well as scalars")
	root := fs.String("root", format.DefaultRootName, "Root name for gron output")
	inputFormat := fs.String("input-format", "", "Input format: json, yaml, toml or msgpack")
	selectExpr := fs.String("select", "", "Only enumerate subtrees matched by a JSONPath expression")
	identifiers := fs.String("identifiers", ident.Unicode.String(), "Identifier rule for gron keys: unicode or ascii")
	colorMode := fs.String("color", string(ColorAuto), "Colour output: auto, always or never")
	output := fs.String("output", "", "Write output to a file instead of stdout")
	assemble := fs.Bool("assemble", false, "Rebuild a document from json format records")
	debug := fs.Bool("debug", false, "Print walk statistics to stderr")

	var positional []string
	rest := args[1:]
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, ErrHelp
			}
			return nil, fmt.Errorf("parse arguments: %w", err)
		}
		if fs.NArg() == 0 {
			break
		}
		if terminated(fs, rest, len(rest)-fs.NArg()) {
			positional = append(positional, fs.Args()...)
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if len(positional) > 1 {
		return nil, fmt.Errorf("%w, got: %s", ErrTooManyArguments, strings.Join(positional, " "))
	}

	cfg := &Config{
		Separator:  *separator,
		EmitAll:    *all,
		RootName:   *root,
		Select:     strings.TrimSpace(*selectExpr),
		OutputFile: strings.TrimSpace(*output),
		Assemble:   *assemble,
		Debug:      *debug,
	}
	if len(positional) == 1 && positional[0] != "-" {
		cfg.InputFile = positional[0]
	}

	var err error
	if cfg.Format, err = parseFormat(*outputFormat); err != nil {
		return nil, err
	}
	if cfg.InputFormat, err = parseInputFormat(*inputFormat, cfg.InputFile); err != nil {
		return nil, err
	}
	if cfg.Identifiers, err = ident.ParseRule(*identifiers); err != nil {
		return nil, fmt.Errorf("%w, got: %s", ErrUnknownIdentifierRule, *identifiers)
	}
	if cfg.Color, err = parseColorMode(*colorMode); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.RootName) == "" {
		return nil, ErrEmptyRootName
	}
	if cfg.Select != "" {
		if err := query.Validate(cfg.Select); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// terminated reports whether the parse that consumed args[:n] stopped at a
// "--" terminator, as opposed to a flag value spelled "--".
func terminated(fs *flag.FlagSet, args []string, n int) bool {
	if n == 0 || args[n-1] != "--" {
		return false
	}
	if n < 2 {
		return true
	}

	prev := args[n-2]
	if !strings.HasPrefix(prev, "-") || strings.Contains(prev, "=") {
		return true
	}
	f := fs.Lookup(strings.TrimLeft(prev, "-"))
	if f == nil {
		return true
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return true
	}
	return false
}

func parseFormat(input string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(input))
	for _, known := range format.Names {
		if name == known {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w, got: %s", ErrUnknownFormat, input)
}

// parseInputFormat prefers the explicit flag, then the file extension, then
// JSON.
func parseInputFormat(input string, filename string) (decode.Format, error) {
	if strings.TrimSpace(input) != "" {
		f, err := decode.ParseFormat(input)
		if err != nil {
			return "", fmt.Errorf("%w, got: %s", ErrUnknownInputFormat, input)
		}
		return f, nil
	}

	if f, ok := decode.FormatFromFilename(filename); ok {
		return f, nil
	}
	return decode.FormatJSON, nil
}

func parseColorMode(input string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(input))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("%w, got: %s", ErrUnknownColorMode, input)
	}
}

// Usage returns command usage text.
func Usage() string {
	return `jindex - enumerate the paths through a JSON document

Usage:
  jindex [options] [FILE]

Reads FILE, or standard input when FILE is absent or "-", and prints one
line per scalar value. The order of the lines is unspecified.

Options:
  --format FORMAT        Output format: gron, json_pointer or json (default: gron)
  --separator STRING     Separator between path and value for json_pointer (default: tab)
  --all                  Emit arrays and objects as well as scalars
  --root NAME            Root name for gron output (default: json)
  --input-format FORMAT  Input format: json, yaml, toml or msgpack (default: from extension, else json)
  --select JSONPATH      Only enumerate subtrees matched by a JSONPath expression
  --identifiers RULE     Keys written as .key in gron output: unicode or ascii (default: unicode)
  --color MODE           Colour gron and json_pointer output: auto, always or never (default: auto)
  --output FILE          Write output to FILE instead of standard output
  --assemble             Read json format records and print the document they describe
  --debug                Print walk statistics to standard error
  -h, --help             Show this help message`
}
