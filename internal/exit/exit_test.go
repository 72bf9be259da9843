package exit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "success", err: nil, wantCode: CodeSuccess, wantMsg: ""},
		{name: "failure", err: errors.New("boom"), wantCode: CodeFailure, wantMsg: "Error: boom\n"},
		{name: "canceled", err: context.Canceled, wantCode: CodeInterrupted, wantMsg: "Interrupted\n"},
		{name: "wrapped cancel", err: fmt.Errorf("walk: %w", context.Canceled), wantCode: CodeInterrupted, wantMsg: "Interrupted\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			result := FromError(&buf, tt.err)
			result.Print()

			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if buf.String() != tt.wantMsg {
				t.Errorf("Print() wrote %q, want %q", buf.String(), tt.wantMsg)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := Errorf(&buf, "bad %s\n", "input")
	result.Print()

	if result.ExitCode != CodeFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, CodeFailure)
	}
	if buf.String() != "bad input\n" {
		t.Errorf("Print() wrote %q", buf.String())
	}
}
