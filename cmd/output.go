package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kamusis/esearch/internal/render"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// Diagnostics go to stderr so report output stays pipeable. The prefixes
// follow portage's own messages:
//   * Error:    failure (fatal or not)
//   * Warning:  a record was skipped

// stderrPalette colors diagnostics; set once flags are parsed.
var stderrPalette = render.PlainPalette()

// printErr prints an error line to stderr.
func printErr(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", stderrPalette.Red(" * Error:"), sentence(msg))
}

// printWarn prints a warning line to stderr.
func printWarn(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", stderrPalette.Turquoise(" * Warning:"), sentence(msg))
}

// sentence upper-cases the first letter of an error message.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
