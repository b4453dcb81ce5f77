package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Agent process
	AgentCommand string
	AgentScript  string
	AgentWorkdir string
	AgentTimeout time.Duration

	AllowedOrigins []string

	LogFile  string
	LogLevel slog.Level
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("AGENT_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("AGENT_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("AGENT_TIMEOUT must be positive, got %s", timeout)
	}

	return &Config{
		Port: strings.TrimPrefix(getEnv("PORT", "8080"), ":"),

		AgentCommand: getEnv("AGENT_COMMAND", "python3"),
		AgentScript:  lookupEnv("AGENT_SCRIPT", "chat_interface.py"),
		AgentWorkdir: getEnv("AGENT_WORKDIR", ""),
		AgentTimeout: timeout,

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		LogFile:  getEnv("LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
	}, nil
}

// AgentArgs is empty when AGENT_SCRIPT is set to "".
func (c *Config) AgentArgs() []string {
	if c.AgentScript == "" {
		return nil
	}
	return []string{c.AgentScript}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// lookupEnv is getEnv where an explicitly empty variable is kept as "".
func lookupEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
