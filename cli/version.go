package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armcknight/cache-for-clankers/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cache-for-clankers %s\n", mcp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
