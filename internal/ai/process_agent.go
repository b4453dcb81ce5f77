package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 5 * time.Minute

	// grandchildren may keep stdout/stderr open after the child exits
	waitDelay = 2 * time.Second
)

type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start agent process %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

type ExecutionError struct {
	ExitCode int
	Stderr   string
	TimedOut bool
	Timeout  time.Duration
	Err      error
}

func (e *ExecutionError) Error() string {
	var msg string
	switch {
	case e.TimedOut:
		msg = fmt.Sprintf("agent process timed out after %s", e.Timeout)
	case e.Err != nil:
		msg = fmt.Sprintf("agent process failed with code %d: %v", e.ExitCode, e.Err)
	default:
		msg = fmt.Sprintf("agent process failed with code %d", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

type ProcessOptions struct {
	Command string
	Args    []string
	Dir     string
	Env     []string // base env of the child, copied
	Timeout time.Duration
	Logger  *slog.Logger
}

// ProcessAgent runs one child process per query.
type ProcessAgent struct {
	command string
	args    []string
	dir     string
	env     []string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewProcessAgent(opts ProcessOptions) *ProcessAgent {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &ProcessAgent{
		command: opts.Command,
		args:    append([]string(nil), opts.Args...),
		dir:     opts.Dir,
		env:     append([]string(nil), opts.Env...),
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

type processInput struct {
	Query  string        `json:"query"`
	Config Configuration `json:"config"`
}

func (a *ProcessAgent) Run(ctx context.Context, query string, cfg Configuration) (string, error) {
	payload, err := json.Marshal(processInput{Query: query, Config: cfg})
	if err != nil {
		return "", fmt.Errorf("encode agent input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.command, a.args...)
	cmd.Dir = a.dir
	cmd.Env = a.environ(query, cfg)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := a.now()
	if err := cmd.Start(); err != nil {
		a.logger.Error("agent process launch failed", "command", a.command, "error", err)
		return "", &LaunchError{Command: a.command, Err: err}
	}
	a.logger.Debug("agent process started", "command", a.command, "pid", cmd.Process.Pid)

	waitErr := cmd.Wait()
	elapsed := a.now().Sub(start)
	stderrText := strings.TrimSpace(stderr.String())

	// exited 0, only a leftover background process held the pipes
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		a.logger.Warn("agent process exited but its output pipes stayed open",
			"wait_delay", waitDelay,
		)
		waitErr = nil
	}

	if waitErr != nil {
		execErr := &ExecutionError{ExitCode: -1, Stderr: stderrText}

		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		} else {
			execErr.Err = waitErr
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			execErr.Err = ctxErr
			execErr.TimedOut = errors.Is(ctxErr, context.DeadlineExceeded)
			execErr.Timeout = a.timeout
		}

		a.logger.Warn("agent process failed",
			"exit_code", execErr.ExitCode,
			"timed_out", execErr.TimedOut,
			"duration_ms", elapsed.Milliseconds(),
			"stderr_bytes", stderr.Len(),
		)
		return "", execErr
	}

	a.logger.Info("agent process finished",
		"duration_ms", elapsed.Milliseconds(),
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
	)

	return strings.TrimSpace(stdout.String()), nil
}

// later entries win in os/exec
func (a *ProcessAgent) environ(query string, cfg Configuration) []string {
	env := make([]string, 0, len(a.env)+5)
	env = append(env, a.env...)
	return append(env,
		"DATABASE_URL="+cfg.DatabaseURL,
		"ENABLE_TRACING="+strconv.FormatBool(cfg.EnableTracing),
		"TRACING_PROJECT_NAME="+cfg.TracingProjectName,
		"USER_QUERY="+query,
		"SYSTEM_PROMPT="+cfg.RenderSystemPrompt(a.now()),
	)
}
