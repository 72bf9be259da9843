package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/jindex/internal/config"
	"github.com/jacoelho/jindex/internal/runner"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(exitCode)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Fprintln(stdout, config.Usage())
			return 0
		}

		fmt.Fprintf(stderr, "Error: %v\n\n%s\n", err, config.Usage())
		return 1
	}

	r := runner.New(cfg)
	r.SetInput(stdin)
	r.SetOutput(stdout)
	r.SetErrorOutput(stderr)

	return r.Run(ctx)
}
