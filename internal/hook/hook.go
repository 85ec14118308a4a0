// Package hook implements the session-start hook: it finds (or installs) the
// task tool, runs its status query and hands the result to the host as
// session context.
//
// The hook never fails the host's session startup. Every error degrades to
// text in the emitted output, and Run only returns an error when stdout
// itself cannot be written.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wayfind/origin-task/internal/config"
	"github.com/wayfind/origin-task/internal/installer"
	"github.com/wayfind/origin-task/internal/invoke"
	"github.com/wayfind/origin-task/internal/logger"
	"github.com/wayfind/origin-task/internal/output"
	"github.com/wayfind/origin-task/internal/reminder"
	"github.com/wayfind/origin-task/internal/resolver"
	"github.com/wayfind/origin-task/internal/session"
)

// EventName is the host event this hook answers
const EventName = "SessionStart"

// Resolver finds a verified executable for a tool name
type Resolver interface {
	Resolve(ctx context.Context, tool string) (*resolver.Resolved, error)
}

// Output is the document written to stdout on the success path
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput carries the context injected into the session
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Hook runs one session start
type Hook struct {
	cfg       *config.Config
	resolver  Resolver
	installer installer.Installer
	runner    invoke.Runner
	log       *logger.Logger
}

// New creates a Hook. inst may be nil, which disables installs.
func New(cfg *config.Config, res Resolver, inst installer.Installer, runner invoke.Runner, log *logger.Logger) *Hook {
	if log == nil {
		log = logger.Nop()
	}
	return &Hook{
		cfg:       cfg,
		resolver:  res,
		installer: inst,
		runner:    runner,
		log:       log,
	}
}

// Run reads the hook input from stdin and writes the session context to
// stdout. Progress and forwarded tool diagnostics go to stderr.
func (h *Hook) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	if stderr == nil {
		stderr = io.Discard
	}
	printer := output.NewPrinterWithWriters(stderr, stderr, false)

	sessionID := h.sessionID(stdin)
	h.propagateSessionID(sessionID)

	resolved, err := h.resolver.Resolve(ctx, h.cfg.Tool)
	justInstalled := false
	if err != nil {
		h.log.WithError(err).Info("Tool not resolved")

		var state string
		if errors.Is(err, resolver.ErrNotFound) {
			resolved, state = h.install(ctx, printer)
		} else {
			state = "skipped (" + err.Error() + ")"
		}
		if resolved == nil {
			_, werr := fmt.Fprintln(stdout, reminder.Advisory(h.cfg.Tool, state, nil))
			return werr
		}
		justInstalled = true
	}

	log := h.log.WithFields(map[string]interface{}{
		"path":   resolved.Path,
		"source": resolved.Source.String(),
	})
	log.Debug("Tool resolved")

	h.initProject(ctx, resolved.Path, log)
	status := h.status(ctx, resolved.Path, sessionID, stderr, log)

	var sections []string
	if justInstalled {
		sections = append(sections, reminder.Onboarding(h.cfg.Tool, resolved.Path))
	}
	if sessionID != "" {
		sections = append(sections, "Session: "+sessionID)
	}
	if status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, strings.TrimRight(reminder.Reminder, "\n"))

	return writeOutput(stdout, strings.Join(sections, "\n\n"))
}

func (h *Hook) sessionID(stdin io.Reader) string {
	in := session.ParseInput(stdin)
	if in.SessionID == "" {
		return ""
	}
	if !in.ValidID() {
		h.log.WithField("session_id", in.SessionID).Info("Ignoring malformed session id")
		return ""
	}
	return in.SessionID
}

func (h *Hook) propagateSessionID(id string) {
	if id == "" || h.cfg.EnvFile == "" {
		return
	}
	if err := session.AppendEnv(h.cfg.EnvFile, session.EnvKey, id); err != nil {
		h.log.WithError(err).Error("Failed to propagate session id")
	}
}

// install attempts the package install and a second resolution. The state
// describes the outcome for the advisory when nothing was resolved.
func (h *Hook) install(ctx context.Context, printer *output.Printer) (*resolver.Resolved, string) {
	if !h.cfg.AutoInstall {
		return nil, reminder.InstallDisabled
	}
	if h.installer == nil || !h.installer.Available(ctx) {
		printer.Warning("%s not found. Cannot auto-install %s.", h.cfg.PackageManager, h.cfg.Package)
		return nil, reminder.InstallSkipped(h.cfg.PackageManager)
	}

	printer.Banner("Installing "+h.cfg.Package+"...", "This may take a few seconds.")
	if err := h.installer.Install(ctx, h.cfg.Package); err != nil {
		h.log.WithError(err).Error("Install failed")
		if errors.Is(err, installer.ErrUnavailable) {
			return nil, reminder.InstallSkipped(h.cfg.PackageManager)
		}
		printer.Error("Installation failed: %s", installer.Truncate(err.Error(), 300))
		return nil, reminder.InstallFailed
	}
	printer.Banner(h.cfg.Package + " installed successfully!")

	resolved, err := h.resolver.Resolve(ctx, h.cfg.Tool)
	if err != nil {
		h.log.WithError(err).Error("Installed tool not resolved")
		printer.Error("Installation succeeded but %s binary not found or not working.", h.cfg.Tool)
		return nil, reminder.InstallFailed
	}
	return resolved, ""
}

// initProject runs "<tool> init" once per project, when the marker
// directory is missing. The outcome is only logged.
func (h *Hook) initProject(ctx context.Context, path string, log *logger.Logger) {
	if !isDir(h.cfg.ProjectDir) {
		return
	}
	if _, err := os.Stat(filepath.Join(h.cfg.ProjectDir, h.cfg.MarkerDir)); err == nil {
		return
	}

	res := h.runner.Run(ctx, path, []string{"init"}, invoke.Options{
		Dir:     h.cfg.ProjectDir,
		Timeout: h.cfg.Timeouts.Init,
	})
	if !res.OK() {
		log.WithError(res.Err()).Error("Project init failed")
		return
	}
	log.WithField("project", h.cfg.ProjectDir).Info("Project initialized")
}

// status runs "<tool> status" and returns its sanitized output, or a
// failure line
func (h *Hook) status(ctx context.Context, path, sessionID string, stderr io.Writer, log *logger.Logger) string {
	opts := invoke.Options{Timeout: h.cfg.Timeouts.Status}
	if isDir(h.cfg.ProjectDir) {
		opts.Dir = h.cfg.ProjectDir
	}
	if sessionID != "" {
		opts.Env = []string{session.EnvKey + "=" + sessionID}
	}

	res := h.runner.Run(ctx, path, []string{"status"}, opts)
	if diag := res.StderrText(); diag != "" {
		_, _ = io.WriteString(stderr, diag)
		if !strings.HasSuffix(diag, "\n") {
			_, _ = io.WriteString(stderr, "\n")
		}
	}

	text := SanitizeStatus(res.StdoutText())
	if res.OK() {
		return text
	}

	log.WithError(res.Err()).Error("Status query failed")
	failure := fmt.Sprintf("Failed to run %s status: %v", h.cfg.Tool, res.Err())
	if text == "" {
		return failure
	}
	return text + "\n" + failure
}

func writeOutput(w io.Writer, text string) error {
	out := Output{HookSpecificOutput: SpecificOutput{
		HookEventName:     EventName,
		AdditionalContext: text,
	}}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write hook output: %w", err)
	}
	return nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
