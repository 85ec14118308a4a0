// Package reminder contains the embedded texts the hook injects into a session
package reminder

import (
	_ "embed"
	"strings"
	"text/template"
)

// Reminder is appended to every successful session context
//
//go:embed text/reminder.md
var Reminder string

//go:embed text/onboarding.md
var onboardingText string

//go:embed text/advisory.md
var advisoryText string

var (
	onboardingTmpl = template.Must(template.New("onboarding").Parse(onboardingText))
	advisoryTmpl   = template.Must(template.New("advisory").Parse(advisoryText))
)

// ManualInstallCommands are suggested when the tool cannot be installed
var ManualInstallCommands = []string{
	"npm install -g @m3task/intent-engine",
	"cargo install intent-engine",
	"brew install wayfind/tap/intent-engine",
}

// Install states reported by the advisory
const (
	InstallFailed   = "failed"
	InstallDisabled = "disabled"
)

// InstallSkipped is the state reported when manager is not installed
func InstallSkipped(manager string) string {
	return "skipped (" + manager + " not found)"
}

// Onboarding renders the welcome text shown right after an install
func Onboarding(tool, path string) string {
	return render(onboardingTmpl, struct{ Tool, Path string }{tool, path})
}

// Advisory renders the manual-install instructions. state is one of the
// Install states.
func Advisory(tool, state string, commands []string) string {
	if len(commands) == 0 {
		commands = ManualInstallCommands
	}
	return render(advisoryTmpl, struct {
		Tool         string
		InstallState string
		Commands     []string
	}{tool, state, commands})
}

func render(t *template.Template, data interface{}) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// The templates are fixed and their data shapes are local
		panic(err)
	}
	return strings.TrimRight(b.String(), "\n")
}
