package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/logger"
	"github.com/wayfind/origin-task/internal/platform"
)

const (
	// DefaultVerifyTimeout caps the version query of each candidate
	DefaultVerifyTimeout = 5 * time.Second

	// DefaultLookupTimeout caps PATH and package-manager queries
	DefaultLookupTimeout = 5 * time.Second

	// DefaultPackageManager is queried for its global prefix
	DefaultPackageManager = "npm"

	versionFlag = "--version"
)

var (
	// ErrNotFound is returned when every method was exhausted
	ErrNotFound = errors.New("executable not found")

	// ErrInvalidTool is returned for empty names or names containing a path
	ErrInvalidTool = errors.New("invalid tool name")
)

// Source identifies the method that produced a candidate
type Source int

const (
	// SourcePath is the operating system's PATH lookup
	SourcePath Source = iota
	// SourcePackageManager is the package manager's global bin directory
	SourcePackageManager
	// SourceWellKnownDir is a fixed platform install directory
	SourceWellKnownDir
	// SourceBridge is a Windows location reached from inside WSL
	SourceBridge
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourcePackageManager:
		return "package-manager"
	case SourceWellKnownDir:
		return "well-known-dir"
	case SourceBridge:
		return "bridge"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Candidate is a path considered during resolution, not yet verified
type Candidate struct {
	Path   string
	Source Source
}

// Resolved is a candidate that passed verification
type Resolved struct {
	Path       string
	Source     Source
	VerifiedAt time.Time
}

// Probe records what happened to one candidate
type Probe struct {
	Candidate
	Exists   bool
	Verified bool
}

// Attempt records one resolution method
type Attempt struct {
	Source  Source
	Skipped bool
	Probes  []Probe
}

// Report is the ordered record of a resolution
type Report struct {
	Tool     string
	Attempts []Attempt
}

// Sources returns the methods that were actually tried, in order
func (r *Report) Sources() []Source {
	var out []Source
	for _, a := range r.Attempts {
		if !a.Skipped {
			out = append(out, a.Source)
		}
	}
	return out
}

// Locator produces candidates for one resolution method
type Locator interface {
	Source() Source
	Applies(p platform.Profile) bool
	Candidates(ctx context.Context, tool string) []Candidate
}

// Resolver turns a tool name into a verified executable path
type Resolver struct {
	profile        platform.Profile
	runner         invoke.Runner
	env            platform.Env
	locators       []Locator
	exists         func(string) bool
	log            *logger.Logger
	verifyTimeout  time.Duration
	lookupTimeout  time.Duration
	packageManager string
	userProviders  []UserProvider
	now            func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLocators replaces the default search methods
func WithLocators(locators ...Locator) Option {
	return func(r *Resolver) { r.locators = locators }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithEnv sets the environment consulted by the default locators
func WithEnv(env platform.Env) Option {
	return func(r *Resolver) { r.env = env }
}

// WithVerifyTimeout sets the version query timeout
func WithVerifyTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.verifyTimeout = d }
}

// WithLookupTimeout sets the PATH and package-manager query timeout
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.lookupTimeout = d }
}

// WithExists replaces the filesystem existence check
func WithExists(fn func(string) bool) Option {
	return func(r *Resolver) { r.exists = fn }
}

// WithClock sets the source of VerifiedAt timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithPackageManager sets the package manager queried for its prefix
func WithPackageManager(name string) Option {
	return func(r *Resolver) { r.packageManager = name }
}

// WithUserProviders sets the Windows username guesses used inside WSL
func WithUserProviders(providers ...UserProvider) Option {
	return func(r *Resolver) { r.userProviders = providers }
}

// New creates a Resolver for profile. Without WithLocators the search
// order is PATH, package-manager bin, well-known dirs, bridge paths.
func New(profile platform.Profile, runner invoke.Runner, opts ...Option) *Resolver {
	r := &Resolver{
		profile:        profile,
		runner:         runner,
		env:            platform.OSEnv{},
		exists:         fileExists,
		log:            logger.Nop(),
		verifyTimeout:  DefaultVerifyTimeout,
		lookupTimeout:  DefaultLookupTimeout,
		packageManager: DefaultPackageManager,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.userProviders == nil {
		r.userProviders = DefaultUserProviders(r.env)
	}
	if r.locators == nil {
		r.locators = r.defaultLocators()
	}
	return r
}

func (r *Resolver) defaultLocators() []Locator {
	return []Locator{
		&PathLocator{Profile: r.profile, Runner: r.runner, Timeout: r.lookupTimeout},
		&PackageManagerLocator{Profile: r.profile, Runner: r.runner, Manager: r.packageManager, Timeout: r.lookupTimeout},
		&WellKnownDirLocator{Profile: r.profile, Env: r.env},
		&BridgeLocator{Users: r.userProviders},
	}
}

// Resolve returns the first candidate, in priority order, that exists and
// passes verification
func (r *Resolver) Resolve(ctx context.Context, tool string) (*Resolved, error) {
	res, _, err := r.ResolveWithReport(ctx, tool)
	return res, err
}

// ResolveWithReport is Resolve plus the record of every method and probe
func (r *Resolver) ResolveWithReport(ctx context.Context, tool string) (*Resolved, *Report, error) {
	report := &Report{Tool: tool}
	if err := validateTool(tool); err != nil {
		return nil, report, err
	}

	log := r.log.WithField("tool", tool)
	timer := log.Timed("resolve")

	for _, loc := range r.locators {
		attempt := Attempt{Source: loc.Source()}
		if !loc.Applies(r.profile) {
			attempt.Skipped = true
			report.Attempts = append(report.Attempts, attempt)
			continue
		}

		for _, cand := range loc.Candidates(ctx, tool) {
			probe := Probe{Candidate: cand}
			probe.Exists = r.exists(cand.Path)
			if probe.Exists {
				probe.Verified = r.verify(ctx, cand.Path)
			}
			attempt.Probes = append(attempt.Probes, probe)

			log.WithFields(map[string]interface{}{
				"source":   cand.Source.String(),
				"path":     cand.Path,
				"exists":   probe.Exists,
				"verified": probe.Verified,
			}).Debug("Probed candidate")

			if probe.Verified {
				report.Attempts = append(report.Attempts, attempt)
				timer.Done()
				return &Resolved{Path: cand.Path, Source: cand.Source, VerifiedAt: r.now()}, report, nil
			}
		}
		report.Attempts = append(report.Attempts, attempt)
	}

	err := fmt.Errorf("%w: %s", ErrNotFound, tool)
	timer.DoneWithError(err)
	return nil, report, err
}

// Verify reports whether path exists and answers a version query
func (r *Resolver) Verify(ctx context.Context, path string) bool {
	return r.exists(path) && r.verify(ctx, path)
}

func (r *Resolver) verify(ctx context.Context, path string) bool {
	res := r.runner.Run(ctx, path, []string{versionFlag}, invoke.Options{Timeout: r.verifyTimeout})
	return res.OK()
}

func validateTool(tool string) error {
	if strings.TrimSpace(tool) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTool)
	}
	if strings.ContainsAny(tool, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidTool, tool)
	}
	return nil
}

// fileExists follows symlinks, so a dangling link does not exist
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
