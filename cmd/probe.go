package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/probe"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe [command [args...]]",
	Short: "Drive an MCP handshake against a server and report each step",
	Long: `Spawns the given server command, speaks the MCP initialize and tool
sequence over its stdio, and prints a per-step report. With no command,
probes this binary's own serve mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, cmdArgs := probeTarget(args)
		report, err := probe.RunCommand(cmd.Context(), probeTimeout, name, cmdArgs...)
		if err != nil {
			return err
		}
		fmt.Print(report.Summary())
		if !report.Passed() {
			return fmt.Errorf("probe failed")
		}
		return nil
	},
}

func probeTarget(args []string) (string, []string) {
	if len(args) > 0 {
		return args[0], args[1:]
	}
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}
	return self, []string{"serve"}
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", probe.DefaultStepTimeout, "Per-step timeout")
	rootCmd.AddCommand(probeCmd)
}
