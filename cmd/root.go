package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "esearch [options] pattern...",
	Short: "Replacement for 'emerge search' with search-index",
	Long: `esearch searches the index generated by eupdatedb from the portage tree.

Each pattern is a case-insensitive regular expression matched against
package names ("*" matches everything).`,
	Example: `  esearch vim
  esearch -c -I '^py'
  esearch -S 'window manager'
  esearch -o '%p %va\n' '*'
  esearch -e gcc`,
	SilenceUsage:  true, // don't print usage on operational errors
	SilenceErrors: true, // Execute reports errors itself
	RunE:          runSearch,
}

// errInterrupted ends the run with exit 1 and no further output.
var errInterrupted = errors.New("interrupted")

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInterrupted) {
			printErr(err.Error())
		}
		os.Exit(1)
	}
}
