package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bindexpr",
	Short: "Inspect and drive the bindexpr expression engine",
	Long: `bindexpr is a small data-binding expression engine: a lexer, parser,
sandboxed evaluator, and dirty-checking scope for declarative UI-style
expressions such as "user.name" or "items | filter:q".

This CLI exposes each compilation stage for debugging, plus an eval
command that runs an expression against JSON-supplied scope/locals and a
watch command that drives a digest loop over a sequence of scope snapshots.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
