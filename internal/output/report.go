package output

import (
	"github.com/wayfind/origin-task/internal/resolver"
)

// Report prints a resolution report, one block per method
func (p *Printer) Report(report *resolver.Report, resolved *resolver.Resolved) {
	p.Info("Resolving %s", report.Tool)

	for _, a := range report.Attempts {
		if a.Skipped {
			p.Detail("%s: skipped on this platform", a.Source)
			continue
		}
		if len(a.Probes) == 0 {
			p.Detail("%s: no candidates", a.Source)
			continue
		}
		for _, probe := range a.Probes {
			p.Detail("%s: %s (%s)", a.Source, probe.Path, probeState(probe))
		}
	}

	if resolved == nil {
		p.Error("%s not found", report.Tool)
		return
	}
	p.Success("%s via %s", resolved.Path, resolved.Source)
}

func probeState(probe resolver.Probe) string {
	switch {
	case probe.Verified:
		return "verified"
	case probe.Exists:
		return "version check failed"
	default:
		return "missing"
	}
}
