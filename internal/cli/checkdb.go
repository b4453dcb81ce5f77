package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
	"github.com/Vovarama1992/deepagent-chat-bridge/internal/chat"
)

var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Check that the configured PostgreSQL database is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bag, err := loadConfigBag(configPath)
		if err != nil {
			return err
		}
		agentCfg, err := ai.ResolveConfiguration(bag)
		if err != nil {
			return err
		}

		info, err := chat.NewPGChecker(10*time.Second).Check(context.Background(), agentCfg.DatabaseURL)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n%s\n", info.Database, info.Version)
		return nil
	},
}
