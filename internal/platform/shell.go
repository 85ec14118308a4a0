package platform

import (
	"strings"
)

// Shell is a command interpreter used to run executables that cannot be
// spawned directly
type Shell struct {
	// Name is a short label used in logs
	Name string

	// Program is the interpreter executable
	Program string

	// Verbatim reports that the command line must reach the interpreter
	// exactly as built, without the runtime re-quoting it
	Verbatim bool

	quoteArg     func(string) string
	quoteCommand func(string) string
	args         func(line string) []string

	// argv, when set, passes the command and its arguments to the
	// interpreter as separate elements instead of one command line
	argv func(command string, args []string) []string
}

// POSIXShell returns the Bourne shell
func POSIXShell() Shell {
	return Shell{
		Name:         "sh",
		Program:      "sh",
		quoteArg:     QuotePOSIX,
		quoteCommand: QuotePOSIX,
		args: func(line string) []string {
			return []string{"-c", line}
		},
	}
}

// CmdShell returns the Windows command interpreter
func CmdShell() Shell {
	return Shell{
		Name:         "cmd",
		Program:      "cmd.exe",
		Verbatim:     true,
		quoteArg:     QuoteCmdArg,
		quoteCommand: QuoteCmdCommand,
		args: func(line string) []string {
			return []string{"/d", "/s", "/c", `"` + line + `"`}
		},
	}
}

// InteropCmdShell returns cmd.exe as started from inside WSL. Interop turns
// the Linux argument vector into a Windows command line itself, quoting
// elements that contain spaces, so the command and its arguments are passed
// as separate elements without caret escaping. /s is left out so that cmd.exe
// keeps the quotes around a command path that contains spaces.
func InteropCmdShell() Shell {
	s := CmdShell()
	s.Name = "wsl-cmd"
	s.Verbatim = false
	s.argv = func(command string, args []string) []string {
		return append([]string{"/d", "/c", command}, args...)
	}
	return s
}

// Quote quotes a single argument for this shell
func (s Shell) Quote(arg string) string {
	return s.quoteArg(arg)
}

// CommandLine builds the line the shell should execute: the command followed
// by each argument quoted on its own
func (s Shell) CommandLine(command string, args []string) string {
	var b strings.Builder
	b.WriteString(s.quoteCommand(command))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(s.quoteArg(a))
	}
	return b.String()
}

// Args returns the interpreter arguments that execute line
func (s Shell) Args(line string) []string {
	return s.args(line)
}

// Argv returns the interpreter arguments that run command with args
func (s Shell) Argv(command string, args []string) []string {
	if s.argv != nil {
		return s.argv(command, args)
	}
	return s.Args(s.CommandLine(command, args))
}

// FullCommandLine is the complete process command line, interpreter
// included. It is what a Verbatim shell must be started with.
func (s Shell) FullCommandLine(line string) string {
	return s.Program + " " + strings.Join(s.Args(line), " ")
}

// QuotePOSIX wraps s in single quotes. Embedded single quotes close the
// quoting, emit an escaped quote and reopen it.
func QuotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// cmdMetaChars are interpreted by cmd.exe unless escaped with a caret
const cmdMetaChars = "()[]%!^\"`<>&|;, *?"

func caretEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if strings.ContainsRune(cmdMetaChars, r) {
			b.WriteByte('^')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteCmdArg quotes s so that a program started by cmd.exe receives it
// unchanged. The argument is first quoted the way the C runtime splits
// command lines (backslashes before a quote are doubled, the quote is
// escaped), then every cmd.exe metacharacter, quotes included, is escaped
// with a caret so the interpreter passes the text through literally.
func QuoteCmdArg(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	backslashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			backslashes++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, backslashes*2+1))
			b.WriteByte('"')
		default:
			b.WriteString(strings.Repeat(`\`, backslashes))
			b.WriteByte(c)
		}
		backslashes = 0
	}
	b.WriteString(strings.Repeat(`\`, backslashes*2))
	b.WriteByte('"')
	return caretEscape(b.String())
}

// QuoteCmdCommand escapes the command position of a cmd.exe line
func QuoteCmdCommand(s string) string {
	return caretEscape(s)
}
