package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON also accepts content as a list of {"type":"text"} blocks.
func (m *Message) UnmarshalJSON(b []byte) error {
	var raw struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = ""

	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw.Content, &m.Content); err == nil {
		return nil
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw.Content, &blocks); err != nil {
		return errors.New("message content must be a string or a list of text blocks")
	}
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type == "text" || block.Type == "" {
			parts = append(parts, block.Text)
		}
	}
	m.Content = strings.Join(parts, "\n")
	return nil
}

var ErrEmptyHistory = errors.New("chat history is empty")

type Service interface {
	Respond(ctx context.Context, history []Message, cfg ai.Configuration) (Message, error)
}

type DBInfo struct {
	Database string `json:"database"`
	Version  string `json:"version"`
}

type DBChecker interface {
	Check(ctx context.Context, dsn string) (DBInfo, error)
}
