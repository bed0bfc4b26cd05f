package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the foundry version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintf(os.Stdout, "foundry %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
