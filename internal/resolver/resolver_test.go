package resolver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/invoke/invoketest"
	"github.com/wayfind/origin-task/internal/platform"
)

const unixWhich = "sh -c command -v 'ie'"

func existing(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestResolveFromPath(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		unixWhich:                     invoketest.OK("/usr/local/bin/ie\n/usr/bin/ie\n"),
		"/usr/local/bin/ie --version": invoketest.OK("ie 0.10.0\n"),
	})
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing("/usr/local/bin/ie")),
		WithClock(func() time.Time { return at }),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/ie", res.Path)
	assert.Equal(t, SourcePath, res.Source)
	assert.Equal(t, at, res.VerifiedAt)
	assert.Equal(t, []Source{SourcePath}, report.Sources())
	assert.Equal(t, []string{unixWhich, "/usr/local/bin/ie --version"}, runner.Lines(),
		"later methods must not run once PATH succeeded")
}

func TestResolveFallsBackToPackageManager(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		unixWhich:                                invoketest.Exit(1, ""),
		"npm config get prefix":                  invoketest.OK("/home/dev/.npm-global\n"),
		"/home/dev/.npm-global/bin/ie --version": invoketest.OK("ie 0.10.0"),
	})

	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing("/home/dev/.npm-global/bin/ie")),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, "/home/dev/.npm-global/bin/ie", res.Path)
	assert.Equal(t, SourcePackageManager, res.Source)
	assert.Equal(t, []Source{SourcePath, SourcePackageManager}, report.Sources())
}

func TestResolveRejectsBrokenCandidate(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		unixWhich:                     invoketest.OK("/usr/bin/ie\n"),
		"/usr/bin/ie --version":       invoketest.Exit(127, "error while loading shared libraries"),
		"npm config get prefix":       invoketest.OK("/usr/local\n"),
		"/usr/local/bin/ie --version": invoketest.OK("ie 0.10.0"),
	})

	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing("/usr/bin/ie", "/usr/local/bin/ie")),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/ie", res.Path)
	assert.Equal(t, SourcePackageManager, res.Source)

	require.Len(t, report.Attempts[0].Probes, 1)
	probe := report.Attempts[0].Probes[0]
	assert.True(t, probe.Exists)
	assert.False(t, probe.Verified, "an existing but broken binary is not trusted")
}

func TestResolveTimedOutVerificationIsRejected(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		unixWhich:               invoketest.OK("/usr/bin/ie\n"),
		"/usr/bin/ie --version": invoketest.Timeout(),
	})

	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing("/usr/bin/ie")),
		WithVerifyTimeout(2*time.Second),
	)
	_, err := r.Resolve(context.Background(), "ie")
	assert.ErrorIs(t, err, ErrNotFound)

	calls := runner.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, 2*time.Second, calls[1].Opts.Timeout)
}

func TestResolveSkipsMissingFilesWithoutVerifying(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		unixWhich:               invoketest.OK("/stale/ie\n"),
		"npm config get prefix": invoketest.OK("undefined\n"),
	})

	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing()),
	)
	_, report, err := r.ResolveWithReport(context.Background(), "ie")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ie")
	assert.Equal(t, []string{unixWhich, "npm config get prefix"}, runner.Lines())
	assert.Empty(t, report.Attempts[1].Probes, "an undefined prefix yields no candidates")
}

func TestResolveNotFoundRecordsSkippedMethods(t *testing.T) {
	r := New(platform.Unix(), invoketest.New(nil),
		WithEnv(platform.MapEnv{}),
		WithExists(existing()),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, report.Attempts, 4)
	assert.Equal(t, []Source{SourcePath, SourcePackageManager}, report.Sources())
	assert.True(t, report.Attempts[2].Skipped)
	assert.True(t, report.Attempts[3].Skipped)
}

func TestResolveWindowsWellKnownDirs(t *testing.T) {
	env := platform.MapEnv{
		"APPDATA":      `C:\Users\dev\AppData\Roaming`,
		"ProgramFiles": `C:\Program Files`,
	}
	target := `C:\Program Files\nodejs\ie.cmd`
	runner := invoketest.Script(map[string]*invoke.Result{
		"where ie":            invoketest.Exit(1, "INFO: Could not find files for the given pattern(s)."),
		target + " --version": invoketest.OK("ie 0.10.0\r\n"),
	})

	r := New(platform.Windows(), runner,
		WithEnv(env),
		WithExists(existing(target)),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, target, res.Path)
	assert.Equal(t, SourceWellKnownDir, res.Source)
	assert.Equal(t, []Source{SourcePath, SourcePackageManager, SourceWellKnownDir}, report.Sources())

	var probed []string
	for _, p := range report.Attempts[2].Probes {
		probed = append(probed, p.Path)
	}
	assert.Equal(t, []string{
		`C:\Users\dev\AppData\Roaming\npm\ie.cmd`,
		`C:\Users\dev\AppData\Roaming\npm\ie.exe`,
		`C:\Program Files\nodejs\ie.cmd`,
	}, probed)
}

func TestResolveWindowsPackageManagerPrefix(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		"npm config get prefix":                             invoketest.OK("C:\\Users\\dev\\AppData\\Roaming\\npm\r\n"),
		`C:\Users\dev\AppData\Roaming\npm\ie.exe --version`: invoketest.OK("ie 0.10.0"),
	})

	r := New(platform.Windows(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing(`C:\Users\dev\AppData\Roaming\npm\ie.exe`)),
	)
	res, err := r.Resolve(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, `C:\Users\dev\AppData\Roaming\npm\ie.exe`, res.Path)
	assert.Equal(t, SourcePackageManager, res.Source)
}

func TestResolveWSLBridge(t *testing.T) {
	target := "/mnt/c/Users/alice/AppData/Roaming/npm/ie.cmd"
	runner := invoketest.Script(map[string]*invoke.Result{
		target + " --version": invoketest.OK("ie 0.10.0"),
	})

	r := New(platform.WSL(), runner,
		WithEnv(platform.MapEnv{"USER": "alice"}),
		WithExists(existing(target)),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, target, res.Path)
	assert.Equal(t, SourceBridge, res.Source)
	assert.Equal(t, []Source{SourcePath, SourcePackageManager, SourceBridge}, report.Sources())
	assert.True(t, report.Attempts[2].Skipped, "well-known dirs are Windows only")
}

func TestBridgeCandidates(t *testing.T) {
	tests := []struct {
		name  string
		users []UserProvider
		want  []string
	}{
		{
			name: "override wins",
			users: DefaultUserProviders(platform.MapEnv{
				"IE_WINDOWS_USER": "Alice Smith",
				"USER":            "alice",
			}),
			want: []string{
				"/mnt/c/Users/Alice Smith/AppData/Roaming/npm/ie",
				"/mnt/c/Users/Alice Smith/AppData/Roaming/npm/ie.cmd",
				"/mnt/c/Users/Alice Smith/.cargo/bin/ie.exe",
				"/mnt/c/Program Files/nodejs/ie",
			},
		},
		{
			name:  "unusable names are passed over",
			users: DefaultUserProviders(platform.MapEnv{"USERNAME": "..", "USER": "a/b", "LOGNAME": "bob"}),
			want: []string{
				"/mnt/c/Users/bob/AppData/Roaming/npm/ie",
				"/mnt/c/Users/bob/AppData/Roaming/npm/ie.cmd",
				"/mnt/c/Users/bob/.cargo/bin/ie.exe",
				"/mnt/c/Program Files/nodejs/ie",
			},
		},
		{
			name:  "no user leaves the fixed fallback",
			users: DefaultUserProviders(platform.MapEnv{}),
			want:  []string{"/mnt/c/Program Files/nodejs/ie"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &BridgeLocator{Users: tt.users}
			var got []string
			for _, c := range loc.Candidates(context.Background(), "ie") {
				assert.Equal(t, SourceBridge, c.Source)
				got = append(got, c.Path)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInvalidTool(t *testing.T) {
	r := New(platform.Unix(), invoketest.New(nil), WithEnv(platform.MapEnv{}))

	for _, tool := range []string{"", "  ", "bin/ie", `..\ie`} {
		_, err := r.Resolve(context.Background(), tool)
		assert.ErrorIs(t, err, ErrInvalidTool, "tool %q", tool)
	}
}

func TestWithLocators(t *testing.T) {
	fixed := &WellKnownDirLocator{
		Profile: platform.Windows(),
		Env:     platform.MapEnv{"USERPROFILE": `C:\Users\dev`},
	}
	runner := invoketest.Script(map[string]*invoke.Result{
		`C:\Users\dev\.cargo\bin\ie.exe --version`: invoketest.OK("ie 0.10.0"),
	})

	r := New(platform.Windows(), runner,
		WithLocators(fixed),
		WithExists(existing(`C:\Users\dev\.cargo\bin\ie.exe`)),
	)
	res, report, err := r.ResolveWithReport(context.Background(), "ie")

	require.NoError(t, err)
	assert.Equal(t, `C:\Users\dev\.cargo\bin\ie.exe`, res.Path)
	assert.Len(t, report.Attempts, 1)
}

func TestVerify(t *testing.T) {
	runner := invoketest.Script(map[string]*invoke.Result{
		"/ok/ie --version":     invoketest.OK("ie 0.10.0"),
		"/broken/ie --version": invoketest.Exit(1, ""),
	})
	r := New(platform.Unix(), runner,
		WithEnv(platform.MapEnv{}),
		WithExists(existing("/ok/ie", "/broken/ie")),
	)

	assert.True(t, r.Verify(context.Background(), "/ok/ie"))
	assert.False(t, r.Verify(context.Background(), "/broken/ie"))
	assert.False(t, r.Verify(context.Background(), "/missing/ie"))
	assert.NotContains(t, runner.Lines(), "/missing/ie --version")
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ie")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0o755))

	assert.True(t, fileExists(file))
	assert.False(t, fileExists(dir), "directories are not executables")
	assert.False(t, fileExists(filepath.Join(dir, "missing")))

	if runtime.GOOS != "windows" {
		link := filepath.Join(dir, "dangling")
		require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), link))
		assert.False(t, fileExists(link), "broken symlinks do not exist")
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "path", SourcePath.String())
	assert.Equal(t, "package-manager", SourcePackageManager.String())
	assert.Equal(t, "well-known-dir", SourceWellKnownDir.String())
	assert.Equal(t, "bridge", SourceBridge.String())
	assert.Equal(t, "source(9)", Source(9).String())
}
