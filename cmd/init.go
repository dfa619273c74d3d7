package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil && !initForce {
			fmt.Printf("Config already exists at %s (use --force to overwrite).\n", cfgPath)
			return nil
		}

		cfgDir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := config.EnsureDir(cfgDir, 0o700); err != nil {
			return err
		}
		if err := config.DefaultConfig().Save(cfgPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
