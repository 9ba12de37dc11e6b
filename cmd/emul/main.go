// Command emul boots a simulated Y-64 system-on-chip and executes
// firmware loaded into its ROM.
//
// Usage: emul -f <firmware> [-r <gib>] [-h] [-v]
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/cli"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/soc"
)

func main() {
	var (
		firmware    string
		ramGiB      int
		showVersion bool
	)

	root := &cobra.Command{
		Use:   "emul",
		Short: "Boot and execute a Y-64 firmware image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(cli.Version)
				return nil
			}
			if firmware == "" {
				return fmt.Errorf("fatal: expected firmware file")
			}

			machine, err := soc.PowerUp(ramGiB << 30)
			if err != nil {
				return err
			}
			if err := machine.LoadFirmware(firmware); err != nil {
				return err
			}

			return machine.CPU.Run()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVarP(&firmware, "firmware", "f", "", "firmware image to load (required)")
	root.Flags().IntVarP(&ramGiB, "ram", "r", 2, "RAM capacity in GiB")
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "print version and exit")

	if err := root.Execute(); err != nil {
		cli.Fatal(err)
	}
}
