// Package installer installs missing tools through a package manager.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/logger"
)

const (
	// DefaultTimeout caps a global install
	DefaultTimeout = 60 * time.Second

	// maxMessageLen bounds the failure text carried in errors
	maxMessageLen = 300
)

// ErrUnavailable is returned when the package manager cannot be found
var ErrUnavailable = errors.New("package manager not available")

// Installer installs a package so its executables land on a searchable path
type Installer interface {
	Available(ctx context.Context) bool
	Install(ctx context.Context, pkg string) error
}

// PackageManager installs packages globally with "<manager> install -g"
type PackageManager struct {
	Name    string
	Runner  invoke.Runner
	Timeout time.Duration
	Log     *logger.Logger

	// LookPath defaults to exec.LookPath
	LookPath func(file string) (string, error)
}

// NewPackageManager creates an installer for the named manager
func NewPackageManager(name string, runner invoke.Runner, log *logger.Logger) *PackageManager {
	if log == nil {
		log = logger.Nop()
	}
	return &PackageManager{
		Name:     name,
		Runner:   runner,
		Timeout:  DefaultTimeout,
		Log:      log,
		LookPath: exec.LookPath,
	}
}

// Available reports whether the manager is on PATH
func (p *PackageManager) Available(context.Context) bool {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath(p.Name)
	return err == nil
}

// Install runs the global install of pkg
func (p *PackageManager) Install(ctx context.Context, pkg string) error {
	if !p.Available(ctx) {
		return fmt.Errorf("%w: %s", ErrUnavailable, p.Name)
	}

	log := p.logger().WithFields(map[string]interface{}{
		"manager": p.Name,
		"package": pkg,
	})
	timer := log.Timed("install")

	res := p.Runner.Run(ctx, p.Name, []string{"install", "-g", pkg}, invoke.Options{Timeout: p.timeout()})
	if res.OK() {
		timer.Done()
		return nil
	}

	err := fmt.Errorf("%s install -g %s: %s", p.Name, pkg, Truncate(failureText(res), maxMessageLen))
	timer.DoneWithError(err)
	return err
}

func (p *PackageManager) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func (p *PackageManager) logger() *logger.Logger {
	if p.Log == nil {
		return logger.Nop()
	}
	return p.Log
}

// failureText picks the most useful description of a failed run
func failureText(res *invoke.Result) string {
	if res.SpawnErr != nil {
		return res.SpawnErr.Error()
	}
	if res.TimedOut {
		return invoke.ErrTimeout.Error()
	}
	if msg := strings.TrimSpace(res.StderrText()); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(res.StdoutText()); msg != "" {
		return msg
	}
	return fmt.Sprintf("exit status %d", res.ExitCode)
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
