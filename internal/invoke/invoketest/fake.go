// Package invoketest provides a scripted invoke.Runner for tests.
package invoketest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/wayfind/origin-task/internal/invoke"
)

// ErrUnscripted is the spawn error returned for calls the script does not
// cover, as if the executable did not exist
var ErrUnscripted = errors.New("executable file not found")

// Call is one recorded invocation
type Call struct {
	Path string
	Args []string
	Opts invoke.Options
}

// Line renders the call as "path arg1 arg2"
func (c Call) Line() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Responder produces the result for a call; nil means unscripted
type Responder func(c Call) *invoke.Result

// Runner records calls and answers them from a Responder
type Runner struct {
	mu      sync.Mutex
	calls   []Call
	respond Responder
}

// New creates a Runner
func New(respond Responder) *Runner {
	return &Runner{respond: respond}
}

// Script answers calls by their Line
func Script(results map[string]*invoke.Result) *Runner {
	return New(func(c Call) *invoke.Result {
		return results[c.Line()]
	})
}

// Run implements invoke.Runner
func (r *Runner) Run(_ context.Context, path string, args []string, opts invoke.Options) *invoke.Result {
	c := Call{Path: path, Args: append([]string(nil), args...), Opts: opts}

	r.mu.Lock()
	r.calls = append(r.calls, c)
	respond := r.respond
	r.mu.Unlock()

	if respond != nil {
		if res := respond(c); res != nil {
			return res
		}
	}
	return SpawnFailure()
}

// Calls returns the recorded calls in order
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the Line of every recorded call
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Line()
	}
	return out
}

// OK is a clean exit printing stdout
func OK(stdout string) *invoke.Result {
	return &invoke.Result{Stdout: []byte(stdout)}
}

// Exit is a non-zero exit printing stderr
func Exit(code int, stderr string) *invoke.Result {
	return &invoke.Result{ExitCode: code, Stderr: []byte(stderr)}
}

// Timeout is a run killed at its deadline
func Timeout() *invoke.Result {
	return &invoke.Result{ExitCode: -1, TimedOut: true}
}

// SpawnFailure is a run whose process never started
func SpawnFailure() *invoke.Result {
	return &invoke.Result{ExitCode: -1, SpawnErr: ErrUnscripted}
}
