package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
	"github.com/Vovarama1992/deepagent-chat-bridge/internal/chat"
)

var askServer string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Run one chat turn and print the assistant reply",
	Long: `Run one chat turn against the analysis agent and print the reply.

By default the agent process is started locally. With --server the turn is
sent to a running bridge instead.

Examples:
  deepagent-bridge ask "list all tables"
  deepagent-bridge ask -c sales.yaml "which customers ordered most last month?"
  deepagent-bridge ask --server http://localhost:8080 "describe the orders table"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askServer, "server", "", "base URL of a running bridge")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := strings.Join(args, " ")
	history := []chat.Message{{Role: chat.RoleUser, Content: question}}

	bag, err := loadConfigBag(configPath)
	if err != nil {
		return err
	}

	var reply chat.Message
	if askServer != "" {
		reply, err = chat.NewClient(askServer, cfg.AgentTimeout+30*time.Second).Turn(ctx, history, bag)
		if err != nil {
			return err
		}
	} else {
		agentCfg, err := ai.ResolveConfiguration(bag)
		if err != nil {
			return err
		}
		svc := chat.NewService(newProcessAgent(), logger.With("component", "chat"))
		reply, err = svc.Respond(ctx, history, agentCfg)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
	return nil
}

// loadConfigBag reads a YAML configuration bag. An empty path yields nil,
// which resolves to the defaults.
func loadConfigBag(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var bag map[string]any
	if err := yaml.Unmarshal(b, &bag); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return bag, nil
}
