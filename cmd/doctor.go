package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check bitchat-mcp installation and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		allOK := true

		// 1. Config file
		cfgPath, err := config.ConfigFilePath()
		if err != nil {
			fmt.Printf("Config:   FAIL (cannot determine path: %v)\n", err)
			allOK = false
		} else if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
			fmt.Printf("Config:   WARN (not present, defaults in use; run 'bitchat-mcp init')\n")
		} else {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				fmt.Printf("Config:   FAIL (%v)\n", err)
				allOK = false
			} else {
				fmt.Printf("Config:   OK (%s %s, %s)\n", cfg.ServerName, cfg.ServerVersion, cfgPath)
			}
		}

		// 2. Log directory
		logDir, err := config.LogDir()
		if err != nil {
			fmt.Printf("Logs:     FAIL (cannot determine path: %v)\n", err)
			allOK = false
		} else if err := config.EnsureDir(logDir, 0o700); err != nil {
			fmt.Printf("Logs:     FAIL (%v)\n", err)
			allOK = false
		} else {
			fmt.Printf("Logs:     OK (%s)\n", logDir)
		}

		// 3. Own binary resolvable for client configs
		self, err := os.Executable()
		if err != nil {
			fmt.Printf("Binary:   WARN (cannot resolve own path: %v)\n", err)
		} else {
			fmt.Printf("Binary:   OK (%s)\n", self)
		}

		// 4. MCP client configs referencing this server
		clients := config.DetectClients()
		if len(clients) == 0 {
			fmt.Println("Clients:  WARN (no MCP client configs found)")
		} else {
			for _, c := range clients {
				if c.HasServer("bitchat-mcp") {
					fmt.Printf("Client %s: OK (registered, %s)\n", c.Name, c.Path)
				} else {
					fmt.Printf("Client %s: WARN (not registered; run 'bitchat-mcp install')\n", c.Name)
				}
			}
		}

		// 5. Diagnostic tools in PATH
		for _, tool := range []string{"system_profiler", "netstat", "ps"} {
			if _, err := exec.LookPath(tool); err != nil {
				fmt.Printf("Tool %s: WARN (not found in PATH)\n", tool)
			} else {
				fmt.Printf("Tool %s: OK\n", tool)
			}
		}

		if !allOK {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
