package chat

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/ai"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc     Service
	checker DBChecker
	logger  *slog.Logger
}

func NewHandler(svc Service, checker DBChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, checker: checker, logger: logger}
}

type turnResponse struct {
	Messages []Message `json:"messages"`
}

// HandleTurn handles one chat turn from the web front end.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Messages []Message      `json:"messages"`
		Config   map[string]any `json:"config"`
	}

	if err := decodeBody(w, r, &payload); err != nil {
		writeDecodeError(w, err)
		return
	}

	cfg, err := ai.ResolveConfiguration(payload.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.svc.Respond(r.Context(), payload.Messages, cfg)
	if errors.Is(err, ErrEmptyHistory) {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if err != nil {
		h.logger.Error("turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, "processing error")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{Messages: []Message{reply}})
}

func (h *Handler) HandleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": ai.DefaultModel,
		"models":  ai.SupportedModels(),
	})
}

func (h *Handler) HandleDBCheck(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Config map[string]any `json:"config"`
	}

	// empty body: default database
	if err := decodeBody(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeDecodeError(w, err)
		return
	}

	cfg, err := ai.ResolveConfiguration(payload.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.checker.Check(r.Context(), cfg.DatabaseURL)
	if err != nil {
		h.logger.Warn("database check failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"database": info.Database,
		"version":  info.Version,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
