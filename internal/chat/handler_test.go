package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
	"github.com/Vovarama1992/deepagent-chat-bridge/internal/chat"
)

type fakeChecker struct {
	info chat.DBInfo
	err  error
	dsn  string
}

func (f *fakeChecker) Check(_ context.Context, dsn string) (chat.DBInfo, error) {
	f.dsn = dsn
	return f.info, f.err
}

func newTestRouter(t *testing.T, agent ai.Agent, checker chat.DBChecker) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	chat.RegisterRoutes(r, chat.NewHandler(chat.NewService(agent, nil), checker, nil))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleTurn(t *testing.T) {
	agent := &fakeAgent{answer: "3 tables"}
	srv := newTestRouter(t, agent, &fakeChecker{})

	w := do(t, srv, http.MethodPost, "/chat/turn", `{
		"messages": [{"role": "user", "content": "list all tables"}],
		"config": {"configurable": {"model": "anthropic_claude_3_5_sonnet", "enableTracing": false}}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Messages []chat.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []chat.Message{{Role: chat.RoleAssistant, Content: "3 tables"}}, resp.Messages)

	require.Equal(t, 1, agent.calls)
	assert.Equal(t, "list all tables", agent.queries[0])
	assert.Equal(t, ai.ModelAnthropicClaude35Sonnet, agent.configs[0].Model)
	assert.False(t, agent.configs[0].EnableTracing)
}

func TestHandleTurnRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"messages":`},
		{"unsupported model", `{"messages":[{"role":"user","content":"q"}],"config":{"configurable":{"model":"gpt-5"}}}`},
		{"wrong field type", `{"messages":[{"role":"user","content":"q"}],"config":{"configurable":{"enableTracing":"yes"}}}`},
		{"empty history", `{"messages":[]}`},
		{"missing history", `{"config":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &fakeAgent{answer: "unused"}
			srv := newTestRouter(t, agent, &fakeChecker{})

			w := do(t, srv, http.MethodPost, "/chat/turn", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, agent.calls)
		})
	}
}

func TestHandleTurnBodyTooLarge(t *testing.T) {
	agent := &fakeAgent{answer: "unused"}
	srv := newTestRouter(t, agent, &fakeChecker{})

	body := `{"messages":[{"role":"user","content":"` + strings.Repeat("x", 2<<20) + `"}]}`
	w := do(t, srv, http.MethodPost, "/chat/turn", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, agent.calls)

	w = do(t, srv, http.MethodPost, "/chat/db-check", `{"config":{"databaseUrl":"`+strings.Repeat("x", 2<<20)+`"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleTurnAgentFailureStillReplies(t *testing.T) {
	agent := &fakeAgent{err: &ai.ExecutionError{ExitCode: 1, Stderr: "connection refused"}}
	srv := newTestRouter(t, agent, &fakeChecker{})

	w := do(t, srv, http.MethodPost, "/chat/turn", `{"messages":[{"role":"user","content":"q"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHandleModels(t *testing.T) {
	srv := newTestRouter(t, &fakeAgent{}, &fakeChecker{})

	w := do(t, srv, http.MethodGet, "/chat/models", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Default string         `json:"default"`
		Models  []ai.ModelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "openai_gpt_4o", resp.Default)
	assert.Equal(t, ai.SupportedModels(), resp.Models)
}

func TestHandleDBCheck(t *testing.T) {
	checker := &fakeChecker{info: chat.DBInfo{Database: "sales", Version: "PostgreSQL 16.2"}}
	srv := newTestRouter(t, &fakeAgent{}, checker)

	w := do(t, srv, http.MethodPost, "/chat/db-check", `{"config":{"configurable":{"databaseUrl":"postgresql://ro@db/sales"}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"database":"sales","version":"PostgreSQL 16.2"}`, w.Body.String())
	assert.Equal(t, "postgresql://ro@db/sales", checker.dsn)
}

func TestHandleDBCheckDefaultsAndFailure(t *testing.T) {
	checker := &fakeChecker{err: errors.New("ping database: connection refused")}
	srv := newTestRouter(t, &fakeAgent{}, checker)

	w := do(t, srv, http.MethodPost, "/chat/db-check", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"ping database: connection refused"}`, w.Body.String())
	assert.Equal(t, ai.DefaultDatabaseURL, checker.dsn)
}

func TestClientTurn(t *testing.T) {
	agent := &fakeAgent{answer: "  two orders  "}
	ts := httptest.NewServer(newTestRouter(t, agent, &fakeChecker{}))
	defer ts.Close()

	client := chat.NewClient(ts.URL+"/", 0)
	reply, err := client.Turn(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "how many orders?"},
	}, map[string]any{"configurable": map[string]any{"tracingProjectName": "cli"}})
	require.NoError(t, err)

	assert.Equal(t, chat.Message{Role: chat.RoleAssistant, Content: "two orders"}, reply)
	assert.Equal(t, "cli", agent.configs[0].TracingProjectName)
}

func TestClientTurnError(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t, &fakeAgent{}, &fakeChecker{}))
	defer ts.Close()

	_, err := chat.NewClient(ts.URL, 0).Turn(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "messages must not be empty")
}
