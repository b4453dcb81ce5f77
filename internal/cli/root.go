// Package cli provides the command-line interface of the bridge.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
	"github.com/Vovarama1992/deepagent-chat-bridge/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func() error
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "deepagent-bridge",
	Short: "Chat bridge to the DeepAgent PostgreSQL analyst",
	Long: `deepagent-bridge turns chat turns from the web UI into runs of the
external DeepAgent analysis process and returns its answer as the
assistant reply.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file with the agent configuration (model, databaseUrl, ...)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(checkDBCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newProcessAgent() *ai.ProcessAgent {
	return ai.NewProcessAgent(ai.ProcessOptions{
		Command: cfg.AgentCommand,
		Args:    cfg.AgentArgs(),
		Dir:     cfg.AgentWorkdir,
		Env:     os.Environ(),
		Timeout: cfg.AgentTimeout,
		Logger:  logger.With("component", "agent"),
	})
}
