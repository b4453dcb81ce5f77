package main

import (
	"os"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
