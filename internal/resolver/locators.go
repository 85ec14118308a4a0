package resolver

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/platform"
)

// PathLocator asks the platform's "which" facility for the tool
type PathLocator struct {
	Profile platform.Profile
	Runner  invoke.Runner
	Timeout time.Duration
}

func (l *PathLocator) Source() Source { return SourcePath }

func (l *PathLocator) Applies(platform.Profile) bool { return true }

// Candidates returns the first match the lookup printed
func (l *PathLocator) Candidates(ctx context.Context, tool string) []Candidate {
	prog, args := l.Profile.WhichCommand(tool)
	res := l.Runner.Run(ctx, prog, args, invoke.Options{Timeout: l.Timeout})
	if !res.OK() {
		return nil
	}

	lines := nonEmptyLines(res.StdoutText())
	if len(lines) == 0 {
		return nil
	}
	return []Candidate{{Path: lines[0], Source: SourcePath}}
}

// PackageManagerLocator looks in the global bin directory of a package
// manager, found by querying its configured prefix
type PackageManagerLocator struct {
	Profile platform.Profile
	Runner  invoke.Runner
	Manager string
	Timeout time.Duration
}

func (l *PackageManagerLocator) Source() Source { return SourcePackageManager }

func (l *PackageManagerLocator) Applies(platform.Profile) bool { return true }

func (l *PackageManagerLocator) Candidates(ctx context.Context, tool string) []Candidate {
	manager := l.Manager
	if manager == "" {
		manager = DefaultPackageManager
	}

	res := l.Runner.Run(ctx, manager, []string{"config", "get", "prefix"}, invoke.Options{Timeout: l.Timeout})
	if !res.OK() {
		return nil
	}
	lines := nonEmptyLines(res.StdoutText())
	if len(lines) == 0 || lines[0] == "undefined" {
		return nil
	}

	dir := l.Profile.PackageManagerBinDir(lines[0])
	var out []Candidate
	for _, name := range l.Profile.ExecutableNames(tool) {
		out = append(out, Candidate{Path: l.Profile.Join(dir, name), Source: SourcePackageManager})
	}
	return out
}

// WellKnownDirLocator probes the platform's fixed install directories. It
// only applies to native Windows.
type WellKnownDirLocator struct {
	Profile platform.Profile
	Env     platform.Env
}

func (l *WellKnownDirLocator) Source() Source { return SourceWellKnownDir }

func (l *WellKnownDirLocator) Applies(p platform.Profile) bool { return p.IsWindows() }

func (l *WellKnownDirLocator) Candidates(_ context.Context, tool string) []Candidate {
	var out []Candidate
	for _, dir := range l.Profile.WellKnownDirs(l.Env) {
		for _, name := range l.Profile.ExecutableNames(tool) {
			out = append(out, Candidate{Path: l.Profile.Join(dir, name), Source: SourceWellKnownDir})
		}
	}
	return out
}

// BridgeLocator probes Windows install locations through the WSL mount of
// the system drive. It only applies inside WSL.
type BridgeLocator struct {
	Users []UserProvider

	// MountPoint defaults to platform.BridgeMountPoint
	MountPoint string
}

func (l *BridgeLocator) Source() Source { return SourceBridge }

func (l *BridgeLocator) Applies(p platform.Profile) bool { return p.Kind == platform.KindWSL }

func (l *BridgeLocator) Candidates(ctx context.Context, tool string) []Candidate {
	mount := l.MountPoint
	if mount == "" {
		mount = platform.BridgeMountPoint
	}

	var paths []string
	if user, ok := firstUser(ctx, l.Users); ok {
		home := path.Join(mount, "Users", user)
		paths = append(paths,
			path.Join(home, "AppData", "Roaming", "npm", tool),
			path.Join(home, "AppData", "Roaming", "npm", tool+".cmd"),
			path.Join(home, ".cargo", "bin", tool+".exe"),
		)
	}
	paths = append(paths, path.Join(mount, "Program Files", "nodejs", tool))

	out := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		out = append(out, Candidate{Path: p, Source: SourceBridge})
	}
	return out
}

// UserProvider guesses the Windows account name behind a WSL session
type UserProvider interface {
	Username(ctx context.Context) (string, bool)
}

// UserProviderFunc adapts a function to UserProvider
type UserProviderFunc func(ctx context.Context) (string, bool)

func (f UserProviderFunc) Username(ctx context.Context) (string, bool) { return f(ctx) }

// EnvUser reads the account name from an environment variable
func EnvUser(env platform.Env, key string) UserProvider {
	return UserProviderFunc(func(context.Context) (string, bool) {
		v, ok := env.Lookup(key)
		return strings.TrimSpace(v), ok
	})
}

// DefaultUserProviders tries an explicit override first, then the usual
// account variables
func DefaultUserProviders(env platform.Env) []UserProvider {
	return []UserProvider{
		EnvUser(env, "IE_WINDOWS_USER"),
		EnvUser(env, "USERNAME"),
		EnvUser(env, "USER"),
		EnvUser(env, "LOGNAME"),
	}
}

func firstUser(ctx context.Context, providers []UserProvider) (string, bool) {
	for _, p := range providers {
		name, ok := p.Username(ctx)
		if !ok || name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			continue
		}
		return name, true
	}
	return "", false
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
