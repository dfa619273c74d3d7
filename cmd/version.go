package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bitchat-mcp %s (commit: %s, mcp: %s)\n", version, commit, mcp.LATEST_PROTOCOL_VERSION)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
