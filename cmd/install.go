package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/config"
)

var installName string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register this server in detected MCP client configs",
	Long: `Finds Claude Code, Claude Desktop, and Cursor configs and adds an
entry that launches this binary in serve mode. Existing entries for the
same name are overwritten; everything else in the client config is
preserved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve own path: %w", err)
		}

		clients := config.DetectClients()
		if len(clients) == 0 {
			fmt.Println("No MCP client configs found.")
			return nil
		}

		entry := &config.ServerEntry{Command: self, Args: []string{"serve"}}
		for _, c := range clients {
			if err := config.RegisterServer(c.Path, installName, entry); err != nil {
				return fmt.Errorf("register with %s: %w", c.Name, err)
			}
			fmt.Printf("Registered %q in %s (%s)\n", installName, c.Name, c.Path)
		}
		fmt.Println("Restart the client(s) to pick up the new server.")
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installName, "name", "bitchat-mcp", "Server name to register under")
	rootCmd.AddCommand(installCmd)
}
