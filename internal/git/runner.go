// Package git drives the git executable for cloning repositories and wiring
// up fork remotes.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 10 * time.Minute

// Result captures the outcome of one git invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes git with an explicit argument list in a working directory.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	Timeout time.Duration
	logger  *log.Logger
}

// NewExecRunner creates an ExecRunner. A non-positive timeout falls back to ten minutes.
func NewExecRunner(timeout time.Duration, logger *log.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExecRunner{Timeout: timeout, logger: logger}
}

// Run starts git and waits for it. The returned Result is non-nil whenever the
// process was started, including when it exits with a non-zero status.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Never block on a credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", subcommand(args), err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", subcommand(args), err)
	}

	r.logger.Printf("Running git %s in %s", strings.Join(args, " "), dir)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("git %s: %w", subcommand(args), err)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(&stdout, r.logger.Writer()), stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(&stderr, r.logger.Writer()), stderrPipe)
		return err
	})
	// A child such as ssh may inherit the pipes and outlive a killed git.
	// Closing the read ends on timeout unblocks the copies.
	drained := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stdoutPipe.Close()
			stderrPipe.Close()
		case <-drained:
		}
	}()
	copyErr := g.Wait()
	close(drained)
	waitErr := cmd.Wait()

	res := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("git %s: %w", subcommand(args), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("git %s exited with status %d: %s", subcommand(args), res.ExitCode, strings.TrimSpace(res.Stderr))
		}
		return res, fmt.Errorf("git %s: %w", subcommand(args), waitErr)
	}
	if copyErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("git %s: %w", subcommand(args), ctxErr)
		}
		return res, fmt.Errorf("git %s: reading output: %w", subcommand(args), copyErr)
	}
	return res, nil
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// IsAlreadyCloned reports whether git clone refused to write into a populated directory.
func IsAlreadyCloned(stderr string) bool {
	return strings.Contains(stderr, "already exists and is not an empty directory")
}

// IsRemoteExists reports whether git remote add failed because name is already configured.
func IsRemoteExists(stderr, name string) bool {
	return strings.Contains(stderr, fmt.Sprintf("remote %s already exists", name))
}
