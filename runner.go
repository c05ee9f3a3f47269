package svg2png

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// CommandRunner abstracts command execution to enable testing without real
// renderer subprocesses.
type CommandRunner interface {
	// Run executes the command and returns its captured standard output.
	Run(ctx context.Context, name string, args ...string) (stdout string, err error)

	// Stream executes the command, copying its combined stdout/stderr to w
	// one line at a time, each line prefixed with the command name. It
	// returns the subprocess exit code; err is reserved for failures to
	// launch or wait, not for nonzero exits.
	Stream(ctx context.Context, w io.Writer, name string, args ...string) (exitCode int, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w", name, err)
	}
	return stdout.String(), nil
}

func (r *ExecRunner) Stream(ctx context.Context, w io.Writer, name string, args ...string) (int, error) {
	if w == nil {
		w = io.Discard
	}

	cmd := exec.CommandContext(ctx, name, args...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return 0, fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		prefixLines(w, pr, name+": ")
	}()

	waitErr := cmd.Wait()
	_ = pw.Close()
	<-done

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("running %s: %w", name, waitErr)
	}
	return 0, nil
}

// prefixLines copies r to w, writing each line with the given prefix so
// interleaved renderer output stays attributable in batch logs.
func prefixLines(w io.Writer, r io.Reader, prefix string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fmt.Fprintf(w, "%s%s\n", prefix, scanner.Text())
	}
}
