// Package output provides colored terminal output for the hook's
// diagnostic commands.
//
// The package offers a simple API for printing colored messages with
// automatic color detection and graceful fallback for non-terminal
// environments.
//
// Features:
//   - Terminal detection through go-isatty
//   - NO_COLOR environment variable support
//   - Framed banners for long-running steps such as installs
//   - Resolution report rendering
//   - Test-friendly with custom writers
//
// Example usage:
//
//	printer := output.NewPrinterWithWriters(os.Stdout, os.Stderr, output.ColorEnabled())
//	printer.Success("Operation completed")
//	printer.Error("Failed to process: %v", err)
//	printer.Report(report, resolved)
package output
