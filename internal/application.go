package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spellchain/spellchain-backend/internal/config"
	"github.com/spellchain/spellchain-backend/internal/dictionary"
	"github.com/spellchain/spellchain-backend/internal/entity"
	"github.com/spellchain/spellchain-backend/internal/registry"
	"github.com/spellchain/spellchain-backend/internal/repository"
	"github.com/spellchain/spellchain-backend/internal/repository/storage"
	"github.com/spellchain/spellchain-backend/internal/usecase"
	"github.com/spellchain/spellchain-backend/transport/rest"
	"github.com/spellchain/spellchain-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// A missing or empty dictionary is fatal: without prefixes every
	// sequence would reset instantly, so the server must not take traffic.
	dict, closeDict, err := buildDictionary(logger, conf)
	if err != nil {
		return fmt.Errorf("could not build dictionary: %w", err)
	}

	if closeDict != nil {
		defer func() {
			if err = closeDict(); err != nil {
				log.Error("could not close dictionary store", "error", err)
			}
		}()
	}

	var completions repository.CompletionRepository

	if conf.Redis.IsEnabled() {
		redisStorage, storageErr := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if storageErr != nil {
			return fmt.Errorf("could not connect to redis storage: %w", storageErr)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		completions = repository.NewCompletionRepository(redisStorage.Connection)
	} else {
		log.Info("redis not configured, leaderboard disabled")
	}

	rooms := registry.New()
	hub := websocket.NewHub(logger)
	gameManager := usecase.NewGameManager(logger, dict, rooms, hub, completions, conf.Game)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, conf.Game, completions)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func buildDictionary(logger *slog.Logger, conf *config.Config) (entity.Dictionary, func() error, error) {
	switch conf.Dictionary.Backend {
	case "memory", "":
		trie, err := dictionary.Load(conf.Dictionary.Path)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("dictionary loaded", "backend", "memory", "words", trie.Len())

		return trie, nil, nil

	case "sqlite":
		store, err := dictionary.OpenSQLite(logger, conf.Dictionary.Path)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("dictionary opened", "backend", "sqlite", "path", conf.Dictionary.Path)

		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown dictionary backend %q", conf.Dictionary.Backend)
	}
}
