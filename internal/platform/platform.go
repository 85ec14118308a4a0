package platform

import (
	"os"
	"path"
	"runtime"
	"strings"
)

// Kind identifies the operating-system family the hook runs on
type Kind int

const (
	// KindUnix covers Linux, macOS and the BSDs
	KindUnix Kind = iota
	// KindWindows is native Windows
	KindWindows
	// KindWSL is Linux running inside the Windows Subsystem for Linux
	KindWSL
)

// String returns the lower-case name of the kind
func (k Kind) String() string {
	switch k {
	case KindWindows:
		return "windows"
	case KindWSL:
		return "wsl"
	default:
		return "unix"
	}
}

const (
	// BridgeMountPoint is where WSL mounts the Windows system drive
	BridgeMountPoint = "/mnt/c"

	procVersionPath = "/proc/version"
)

// Profile is the capability set of one platform. It is selected once at
// startup and passed to everything that would otherwise branch on GOOS.
type Profile struct {
	Kind Kind

	// PathListSeparator separates entries of PATH-like variables
	PathListSeparator string

	// ExecutableExtensions are appended to a tool name when probing
	// directories. Empty for platforms where executables carry no extension.
	ExecutableExtensions []string

	// ShellExtensions are wrapper extensions that cannot be spawned directly
	ShellExtensions []string
}

// Unix returns the profile for native Unix-like systems
func Unix() Profile {
	return Profile{
		Kind:              KindUnix,
		PathListSeparator: ":",
		ShellExtensions:   []string{".cmd", ".bat"},
	}
}

// Windows returns the profile for native Windows
func Windows() Profile {
	return Profile{
		Kind:                 KindWindows,
		PathListSeparator:    ";",
		ExecutableExtensions: []string{".cmd", ".exe"},
		ShellExtensions:      []string{".cmd", ".bat"},
	}
}

// WSL returns the profile for Linux hosted inside Windows
func WSL() Profile {
	p := Unix()
	p.Kind = KindWSL
	return p
}

// Current detects the profile of the running process
func Current() Profile {
	return Detect(runtime.GOOS, OSEnv{}, os.ReadFile)
}

// Detect picks the profile for goos. A Linux host is treated as WSL when the
// interop variables are set or the kernel version string mentions Microsoft.
// readFile may be nil, which skips the kernel check.
func Detect(goos string, env Env, readFile func(string) ([]byte, error)) Profile {
	switch goos {
	case "windows":
		return Windows()
	case "linux":
		if isWSL(env, readFile) {
			return WSL()
		}
	}
	return Unix()
}

func isWSL(env Env, readFile func(string) ([]byte, error)) bool {
	for _, key := range []string{"WSL_DISTRO_NAME", "WSL_INTEROP"} {
		if v, ok := env.Lookup(key); ok && v != "" {
			return true
		}
	}
	if readFile == nil {
		return false
	}
	data, err := readFile(procVersionPath)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// IsWindows reports whether the profile is native Windows
func (p Profile) IsWindows() bool {
	return p.Kind == KindWindows
}

// RequiresShell reports whether candidate must be run through a command
// shell rather than spawned directly. Native Windows always requires the
// shell; elsewhere only batch/command wrappers do.
func (p Profile) RequiresShell(candidate string) bool {
	if p.Kind == KindWindows {
		return true
	}
	ext := strings.ToLower(extension(candidate))
	for _, e := range p.ShellExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExecutableNames returns the file names a tool may be installed under
func (p Profile) ExecutableNames(tool string) []string {
	if len(p.ExecutableExtensions) == 0 {
		return []string{tool}
	}
	names := make([]string, 0, len(p.ExecutableExtensions))
	for _, ext := range p.ExecutableExtensions {
		names = append(names, tool+ext)
	}
	return names
}

// Join joins path elements with the platform's separator. Windows paths are
// joined with backslashes regardless of the host the code runs on.
func (p Profile) Join(elem ...string) string {
	if p.Kind != KindWindows {
		return path.Join(elem...)
	}
	parts := make([]string, 0, len(elem))
	for i, e := range elem {
		if e == "" {
			continue
		}
		if i > 0 {
			e = strings.TrimLeft(e, `\/`)
		}
		if i < len(elem)-1 {
			e = strings.TrimRight(e, `\/`)
		}
		parts = append(parts, e)
	}
	return strings.Join(parts, `\`)
}

// PackageManagerBinDir maps a package manager's global prefix to the
// directory holding its global executables
func (p Profile) PackageManagerBinDir(prefix string) string {
	if p.Kind == KindWindows {
		return prefix
	}
	return p.Join(prefix, "bin")
}

// WhichCommand returns the program and arguments that print the location of
// tool on PATH, one match per line
func (p Profile) WhichCommand(tool string) (string, []string) {
	if p.Kind == KindWindows {
		return "where", []string{tool}
	}
	return "sh", []string{"-c", "command -v " + QuotePOSIX(tool)}
}

// WellKnownDir is a directory derived from an environment variable
type WellKnownDir struct {
	EnvVar string
	Suffix []string
}

var windowsWellKnownDirs = []WellKnownDir{
	{EnvVar: "APPDATA", Suffix: []string{"npm"}},
	{EnvVar: "LOCALAPPDATA", Suffix: []string{"npm"}},
	{EnvVar: "ProgramFiles", Suffix: []string{"nodejs"}},
	{EnvVar: "USERPROFILE", Suffix: []string{".cargo", "bin"}},
}

// WellKnownDirs returns the fixed install locations of the platform in
// priority order. Entries whose variable is unset are left out.
func (p Profile) WellKnownDirs(env Env) []string {
	if p.Kind != KindWindows {
		return nil
	}
	var dirs []string
	for _, d := range windowsWellKnownDirs {
		base, ok := env.Lookup(d.EnvVar)
		if !ok || strings.TrimSpace(base) == "" {
			continue
		}
		dirs = append(dirs, p.Join(append([]string{base}, d.Suffix...)...))
	}
	return dirs
}

// Shell returns the command shell used for shell dispatch
func (p Profile) Shell() Shell {
	if p.Kind == KindWindows {
		return CmdShell()
	}
	return POSIXShell()
}

// ShellFor returns the shell that can run candidate. Inside WSL, Windows
// command wrappers are handed to cmd.exe through interop.
func (p Profile) ShellFor(candidate string) Shell {
	if p.viaInterop(candidate) {
		return InteropCmdShell()
	}
	return p.Shell()
}

// ShellPath returns candidate as the shell from ShellFor must name it.
// Inside WSL a wrapper under a drive mount is given to cmd.exe as the
// Windows path, since cmd.exe cannot open /mnt/<drive> paths.
func (p Profile) ShellPath(candidate string) string {
	if !p.viaInterop(candidate) {
		return candidate
	}
	if win, ok := WindowsPath(candidate); ok {
		return win
	}
	return candidate
}

func (p Profile) viaInterop(candidate string) bool {
	return p.Kind == KindWSL && p.RequiresShell(candidate)
}

// WindowsPath maps a WSL drive mount path such as /mnt/c/Users/dev to
// C:\Users\dev. It reports false for paths outside a drive mount.
func WindowsPath(linuxPath string) (string, bool) {
	rest, ok := strings.CutPrefix(linuxPath, "/mnt/")
	if !ok || rest == "" {
		return "", false
	}
	drive, tail, _ := strings.Cut(rest, "/")
	if len(drive) != 1 || !isDriveLetter(drive[0]) {
		return "", false
	}
	win := strings.ToUpper(drive) + `:\`
	if tail != "" {
		win += strings.ReplaceAll(tail, "/", `\`)
	}
	return win, true
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func extension(name string) string {
	i := strings.LastIndexAny(name, `.\/`)
	if i < 0 || name[i] != '.' {
		return ""
	}
	return name[i:]
}
