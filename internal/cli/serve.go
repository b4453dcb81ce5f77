package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/Vovarama1992/deepagent-chat-bridge/internal/chat"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API for the web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           newRouter(),
			ReadHeaderTimeout: 10 * time.Second,
			// a turn waits for the agent process
			WriteTimeout: cfg.AgentTimeout + 30*time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", srv.Addr, "agent", cfg.AgentCommand, "agent_timeout", cfg.AgentTimeout)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
	}))

	// --- Chat module wiring ---
	chatService := chat.NewService(newProcessAgent(), logger.With("component", "chat"))
	chatHandler := chat.NewHandler(chatService, chat.NewPGChecker(5*time.Second), logger)

	chat.RegisterRoutes(r, chatHandler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}
