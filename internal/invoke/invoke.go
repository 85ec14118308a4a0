// Package invoke runs external executables and reports structured results
// instead of errors.
//
// A Runner never returns a nil Result and never aborts the caller: spawn
// failures, non-zero exits and timeouts are all recorded on the Result.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wayfind/origin-task/internal/logger"
	"github.com/wayfind/origin-task/internal/platform"
)

const (
	// DefaultTimeout applies when Options.Timeout is zero
	DefaultTimeout = 15 * time.Second

	// waitDelay bounds how long Wait keeps draining pipes after the process
	// was killed, in case a grandchild still holds them open
	waitDelay = 500 * time.Millisecond
)

// Options configures a single invocation
type Options struct {
	// Dir is the working directory; empty means the current one
	Dir string

	// Env entries (KEY=value) are appended to the inherited environment
	Env []string

	// Timeout caps the run; zero means DefaultTimeout
	Timeout time.Duration

	// ForceShell dispatches through the platform shell even when the
	// profile would spawn the executable directly
	ForceShell bool
}

// Result describes one finished invocation
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	TimedOut bool
	SpawnErr error
	Duration time.Duration
}

// OK reports a clean exit: status zero, no spawn error and no timeout
func (r *Result) OK() bool {
	return r.SpawnErr == nil && !r.TimedOut && r.ExitCode == 0
}

// StdoutText returns stdout with line endings normalized to LF
func (r *Result) StdoutText() string {
	return NormalizeNewlines(string(r.Stdout))
}

// StderrText returns stderr with line endings normalized to LF
func (r *Result) StderrText() string {
	return NormalizeNewlines(string(r.Stderr))
}

// Err summarizes why the invocation did not succeed, or nil if it did
func (r *Result) Err() error {
	switch {
	case r.SpawnErr != nil:
		return r.SpawnErr
	case r.TimedOut:
		return ErrTimeout
	case r.ExitCode != 0:
		return &ExitError{Code: r.ExitCode, Stderr: strings.TrimSpace(r.StderrText())}
	}
	return nil
}

// ErrTimeout is reported by Result.Err for runs that hit their timeout
var ErrTimeout = errors.New("invocation timed out")

// ExitError is reported by Result.Err for runs that exited non-zero
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return "exit status " + strconv.Itoa(e.Code) + ": " + e.Stderr
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Runner runs executables
type Runner interface {
	Run(ctx context.Context, path string, args []string, opts Options) *Result
}

// ExecRunner is the Runner backed by os/exec
type ExecRunner struct {
	profile platform.Profile
	log     *logger.Logger
}

// NewExecRunner creates a runner that dispatches according to profile
func NewExecRunner(profile platform.Profile, log *logger.Logger) *ExecRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &ExecRunner{profile: profile, log: log}
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, path string, args []string, opts Options) *Result {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := r.command(ctx, path, args, opts)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
	} else if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.SpawnErr = err
			res.ExitCode = -1
		}
	}

	r.log.WithFields(map[string]interface{}{
		"path":        path,
		"args":        args,
		"exit_code":   res.ExitCode,
		"timed_out":   res.TimedOut,
		"duration_ms": float64(res.Duration.Nanoseconds()) / 1e6,
	}).WithError(res.SpawnErr).Debug("Invocation finished")

	return res
}

// command builds the exec.Cmd, going through the shell when the platform
// cannot spawn path directly
func (r *ExecRunner) command(ctx context.Context, path string, args []string, opts Options) *exec.Cmd {
	if !opts.ForceShell && !r.profile.RequiresShell(path) {
		return exec.CommandContext(ctx, path, args...)
	}

	shell := r.profile.ShellFor(path)
	command := r.profile.ShellPath(path)
	cmd := exec.CommandContext(ctx, shell.Program, shell.Argv(command, args)...)
	if shell.Verbatim {
		setVerbatimCommandLine(cmd, shell.FullCommandLine(shell.CommandLine(command, args)))
	}
	return cmd
}
