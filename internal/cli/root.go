// Package cli builds the autoclick command tree. cmd/autoclick runs it and
// cmd/gen-docs walks it to produce completions and the man page.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stigoleg/autoclick/internal/config"
)

// Name is the binary name.
const Name = "autoclick"

// Description is the one-line summary used in help and the man page.
const Description = "A configurable auto clicker with randomized, human-like timing."

// defaultTUILog receives logs while the TUI owns the terminal.
const defaultTUILog = "autoclick.log"

type app struct {
	version string
	flags   config.Flags
}

// NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   Name,
		Short: Description,
		Long: `autoclick clicks the mouse at a fixed or randomized interval, or plays back
a recorded sequence of clicks. Without a subcommand it starts the interactive
terminal UI. Settings come from a YAML profile and can be overridden by flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          a.runTUI,
	}
	a.flags.Register(root.PersistentFlags())

	root.AddCommand(a.newClickCmd())
	root.AddCommand(a.newSequenceCmd())
	root.AddCommand(a.newRecordCmd())
	root.AddCommand(a.newEstimateCmd())
	root.AddCommand(newVersionCmd(version))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", Name, version)
		},
	}
}
