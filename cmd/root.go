package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bitchat-mcp",
	Short: "Mock MCP server and diagnostics for the bitchat mesh",
	Long: `bitchat-mcp serves mock bitchat mesh network tools, resources, and
prompts over MCP stdio, and bundles the Bluetooth and network
diagnostics used while developing against it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
