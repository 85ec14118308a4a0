package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"

	bannerRule = "========================================"
)

// Printer handles colored output
type Printer struct {
	out      io.Writer
	err      io.Writer
	useColor bool
}

// NewPrinterWithWriters creates a printer with custom writers
func NewPrinterWithWriters(out, err io.Writer, useColor bool) *Printer {
	return &Printer{
		out:      out,
		err:      err,
		useColor: useColor,
	}
}

// Success prints a success message in green
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.out, colorGreen, "✓ ", format, args...)
}

// Error prints an error message in red
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.err, colorRed, "✗ ", format, args...)
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.err, colorYellow, "⚠ ", format, args...)
}

// Info prints an info message in cyan
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.out, colorCyan, "→ ", format, args...)
}

// Detail prints a detail message in gray
func (p *Printer) Detail(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if p.useColor {
		_, _ = fmt.Fprintf(p.out, "%s  %s%s\n", colorGray, message, colorReset)
	} else {
		_, _ = fmt.Fprintf(p.out, "  %s\n", message)
	}
}

// Println prints a plain message with newline
func (p *Printer) Println(args ...interface{}) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Banner prints lines framed by rules and surrounded by blank lines
func (p *Printer) Banner(lines ...string) {
	var b strings.Builder
	b.WriteString("\n" + bannerRule + "\n")
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
	b.WriteString(bannerRule + "\n\n")

	if p.useColor {
		_, _ = fmt.Fprintf(p.out, "%s%s%s", colorBold, b.String(), colorReset)
	} else {
		_, _ = io.WriteString(p.out, b.String())
	}
}

func (p *Printer) line(w io.Writer, color, symbol, format string, args ...interface{}) {
	if w == nil {
		return
	}
	message := fmt.Sprintf(format, args...)
	if p.useColor {
		_, _ = fmt.Fprintf(w, "%s%s%s%s%s\n", colorBold, color, symbol, message, colorReset)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s\n", symbol, message)
	}
}

// isTerminal checks if f is a terminal
func isTerminal(f *os.File) bool {
	// Check if NO_COLOR env var is set
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled reports whether stdout is a terminal that accepts colors
func ColorEnabled() bool {
	return isTerminal(os.Stdout)
}
