package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
)

const (
	FallbackReply    = "I apologize, but I couldn't process your request. Please try again."
	errorReplyFormat = "I encountered an error while processing your request: %s. Please check that the PostgreSQL database is running and accessible."
)

type service struct {
	agent  ai.Agent
	logger *slog.Logger
}

func NewService(agent ai.Agent, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &service{
		agent:  agent,
		logger: logger,
	}
}

// Respond runs one turn. Agent failures become an assistant message, only a
// missing user message is reported as an error.
func (s *service) Respond(ctx context.Context, history []Message, cfg ai.Configuration) (Message, error) {
	if len(history) == 0 {
		return Message{}, ErrEmptyHistory
	}

	query := history[len(history)-1].Content

	log := s.logger.With("turn_id", uuid.NewString(), "model", string(cfg.Model))
	log.Info("turn started", "history_len", len(history), "query", short(query))

	answer, err := s.agent.Run(ctx, query, cfg)
	if err != nil {
		log.Error("agent failed", "error", err)
		return assistant(fmt.Sprintf(errorReplyFormat, err.Error())), nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		log.Warn("agent returned empty answer")
		return assistant(FallbackReply), nil
	}

	log.Info("turn completed", "reply_len", len(answer))
	return assistant(answer), nil
}

func assistant(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

func short(s string) string {
	const limit = 180
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
