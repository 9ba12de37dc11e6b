// Command arki is the Y-64 two-pass assembler CLI.
//
// Usage: arki [-h] [-v] <input>...
//
// Each positional argument is assembled independently into y64.bin,
// overwritten per input, matching the original spec's §6 CLI contract.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/assemble"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/cli"
)

const outFile = "y64.bin"

func main() {
	showVersion := false

	root := &cobra.Command{
		Use:   "arki <input>...",
		Short: "Assemble Y-64 source into a flat binary image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(cli.Version)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("fatal: expected input file")
			}
			for _, in := range args {
				if err := assemble.File(in, outFile); err != nil {
					return err
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "print version and exit")

	if err := root.Execute(); err != nil {
		cli.Fatal(err)
	}
}
