package runner

import (
	"context"
	"strings"
	"testing"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewExecRunner()

	out, err := r.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out != "hello" {
		t.Errorf("Run() output = %q, want %q", out, "hello")
	}
}

func TestExecRunner_RunInput(t *testing.T) {
	r := NewExecRunner()

	out, err := r.RunInput(context.Background(), "payload\n", "cat")
	if err != nil {
		t.Fatalf("RunInput() error = %v", err)
	}

	if out != "payload" {
		t.Errorf("RunInput() output = %q, want %q", out, "payload")
	}
}

func TestExecRunner_CommandFailure(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), "false")
	if err == nil {
		t.Fatal("Run() on failing command should return error")
	}
}

func TestExecRunner_MissingCommand(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), "osdprep-no-such-binary")
	if err == nil {
		t.Fatal("Run() on missing command should return error")
	}
	if !strings.Contains(err.Error(), "osdprep-no-such-binary") {
		t.Errorf("error %q does not name the command", err)
	}
}
