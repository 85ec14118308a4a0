package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfind/origin-task/internal/resolver"
)

func TestPrinterReport(t *testing.T) {
	report := &resolver.Report{
		Tool: "ie",
		Attempts: []resolver.Attempt{
			{Source: resolver.SourcePath, Probes: []resolver.Probe{
				{Candidate: resolver.Candidate{Path: "/usr/bin/ie", Source: resolver.SourcePath}, Exists: true},
			}},
			{Source: resolver.SourcePackageManager, Probes: []resolver.Probe{
				{Candidate: resolver.Candidate{Path: "/opt/npm/bin/ie", Source: resolver.SourcePackageManager}, Exists: true, Verified: true},
			}},
		},
	}
	resolved := &resolver.Resolved{Path: "/opt/npm/bin/ie", Source: resolver.SourcePackageManager}

	var out, errOut bytes.Buffer
	NewPrinterWithWriters(&out, &errOut, false).Report(report, resolved)

	assert.Equal(t, "→ Resolving ie\n"+
		"  path: /usr/bin/ie (version check failed)\n"+
		"  package-manager: /opt/npm/bin/ie (verified)\n"+
		"✓ /opt/npm/bin/ie via package-manager\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPrinterReportNotFound(t *testing.T) {
	report := &resolver.Report{
		Tool: "ie",
		Attempts: []resolver.Attempt{
			{Source: resolver.SourcePath},
			{Source: resolver.SourcePackageManager},
			{Source: resolver.SourceWellKnownDir, Skipped: true},
			{Source: resolver.SourceBridge, Probes: []resolver.Probe{
				{Candidate: resolver.Candidate{Path: "/mnt/c/Program Files/nodejs/ie", Source: resolver.SourceBridge}},
			}},
		},
	}

	var out, errOut bytes.Buffer
	NewPrinterWithWriters(&out, &errOut, false).Report(report, nil)

	assert.Contains(t, out.String(), "  path: no candidates\n")
	assert.Contains(t, out.String(), "  well-known-dir: skipped on this platform\n")
	assert.Contains(t, out.String(), "  bridge: /mnt/c/Program Files/nodejs/ie (missing)\n")
	assert.Equal(t, "✗ ie not found\n", errOut.String())
}
