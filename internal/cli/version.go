package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cliVersion = "dev"
	cliCommit  = "none"
	cliDate    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kafgov %s\n", cliVersion)
		fmt.Printf("  commit: %s\n", cliCommit)
		fmt.Printf("  built:  %s\n", cliDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
