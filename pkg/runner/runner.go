package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/osdkit/osdprep/pkg/log"
)

// Runner executes external commands. Every interaction osdprep has with the
// system (LVM tooling, blkid, mkfs, mount, the cluster admin CLI) goes
// through this interface so tests can substitute fakes.
type Runner interface {
	// Run executes a command and returns its stdout
	Run(ctx context.Context, name string, args ...string) (string, error)

	// RunInput executes a command with the given stdin and returns its
	// stdout
	RunInput(ctx context.Context, stdin string, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the host via os/exec
type ExecRunner struct {
	// Timeout bounds a single command execution (default: 2 minutes,
	// formatting a large device can be slow)
	Timeout time.Duration
}

// NewExecRunner creates a runner with the default timeout
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Timeout: 2 * time.Minute,
	}
}

// Run executes a command and returns trimmed stdout
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunInput(ctx, "", name, args...)
}

// RunInput executes a command feeding stdin and returns trimmed stdout
func (r *ExecRunner) RunInput(ctx context.Context, stdin string, name string, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	// Capture output
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := log.WithComponent("runner")
	logger.Debug().Str("command", name).Strs("args", args).Msg("executing")

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("%s %s: %v", name, strings.Join(args, " "), err)
		if stderr.Len() > 0 {
			msg = fmt.Sprintf("%s, stderr: %s", msg, strings.TrimSpace(stderr.String()))
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("%s", msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}
