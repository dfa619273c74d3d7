package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skerns321/bitchat-mcp/internal/config"
	"github.com/skerns321/bitchat-mcp/internal/logging"
	"github.com/skerns321/bitchat-mcp/internal/server"
)

var serveMinimal bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Serves newline-delimited JSON-RPC 2.0 on stdin/stdout. Logs go to
stderr and the log file; stdout carries only protocol frames.

--minimal registers just the hello and bluetooth_scan tools, useful for
smoke-testing a client connection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}

		logDir, err := config.LogDir()
		if err != nil {
			return err
		}
		logger, closeLogs, err := logging.Setup(logDir, logging.ParseLevel(cfg.LogLevel))
		if err != nil {
			return err
		}
		defer closeLogs()

		s := server.New(cfg.ServerName, cfg.ServerVersion, logger)
		server.RegisterCoreTools(s)
		if !serveMinimal {
			server.RegisterMeshTools(s)
			server.RegisterResources(s)
			server.RegisterPrompts(s)
		}

		logger.Info("server starting",
			"name", cfg.ServerName,
			"version", cfg.ServerVersion,
			"minimal", serveMinimal)
		err = s.Serve(cmd.Context(), os.Stdin, os.Stdout)
		logger.Info("server stopped")
		return err
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMinimal, "minimal", false, "Register only the smoke-test tools")
	rootCmd.AddCommand(serveCmd)
}
