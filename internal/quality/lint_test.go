package quality

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

const projectRoot = "../.."

// TestLintingCompliance ensures that the module passes golangci-lint.
// Skipped when golangci-lint is not installed.
func TestLintingCompliance(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found, skipping linting test")
	}

	cmd := exec.Command("golangci-lint", "run", "./...")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err, "golangci-lint reported issues:\n%s", output)
}
