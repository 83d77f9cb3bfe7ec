// Command paneloomctl drives the layout engine from the command line: it
// loads a scenario (a sequence of commands against a set of fake outputs
// and windows) and prints the resulting layout as a per-output summary, a
// render-query dump or an ASCII floor plan (run), or reports invariant
// violations (check). It exists to exercise the command surface without a
// real compositor attached.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paneloomctl",
		Short: "Drive the scrollable-tiling layout engine from a scenario file",
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	return cmd
}
