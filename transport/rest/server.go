package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spellchain/spellchain-backend/internal/config"
	"github.com/spellchain/spellchain-backend/internal/repository"
)

type leaderboard interface {
	TopWords(ctx context.Context, limit int) ([]repository.WordScore, error)
}

type Server struct {
	logger      *slog.Logger
	game        config.Game
	leaderboard leaderboard
}

// New builds the REST surface. leaderboard may be nil when redis is not
// configured; the endpoint then reports the feature unavailable.
func New(logger *slog.Logger, game config.Game, leaderboard leaderboard) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		game:        game,
		leaderboard: leaderboard,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.pingHandler)
	router.Get("/config", that.configHandler)
	router.Get("/leaderboard", that.leaderboardHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
