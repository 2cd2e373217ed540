package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"voicebridge/internal/audio"
	"voicebridge/internal/config"
	"voicebridge/internal/history"
	apphttp "voicebridge/internal/http"
	"voicebridge/internal/kv"
	"voicebridge/internal/llm"
	"voicebridge/internal/session"
	"voicebridge/internal/stt"
	"voicebridge/internal/translation"
	"voicebridge/internal/tts"
	"voicebridge/migrations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	blobs, closeBlobs, err := openBlobStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeBlobs()

	store := history.NewStore(logger, blobs)

	player := audio.NewStubPlayer(logger)
	recorder := audio.NewStubRecorder(logger, filepath.Join(cfg.ScratchDir(), "captures"))

	var translator translation.Translator
	if cfg.OpenAIAPIKey != "" {
		translator = llm.NewOpenAIClient(logger, cfg.OpenAIAPIKey, &llm.OpenAIOptions{Model: cfg.OpenAIModel})
	} else {
		logger.Warn("OPENAI_API_KEY not set, using stub translator")
		translator = llm.NewStubClient(logger)
	}

	var transcriber translation.Transcriber
	var synthesizer translation.Synthesizer
	if cfg.GoogleAPIKey != "" {
		transcriber = stt.NewGoogleClient(logger, cfg.GoogleAPIKey, nil)
		synthesizer = tts.NewGoogleClient(logger, cfg.GoogleAPIKey, cfg.ScratchDir(), player, nil)
	} else {
		logger.Warn("GOOGLE_API_KEY not set, using stub speech clients")
		transcriber = stt.NewStubClient(logger)
		synthesizer = tts.NewStubClient(logger)
	}

	sessions := session.NewManager(session.Deps{
		Logger:      logger,
		Translator:  translator,
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Recorder:    recorder,
		History:     store,
	})

	handler := apphttp.NewServer(logger, sessions, store)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown server: %w", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// openBlobStore picks Postgres when DB_DSN is set, local files otherwise.
func openBlobStore(ctx context.Context, logger *slog.Logger, cfg config.Config) (kv.Store, func(), error) {
	if cfg.DBDSN == "" {
		logger.Info("DB_DSN not set, storing history in local files", slog.String("dir", cfg.DataDir))
		fileStore, err := kv.NewFileStore(filepath.Join(cfg.DataDir, "blobs"))
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fileStore, func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	if err := pingDB(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	if err := kv.RunMigrations(ctx, db, migrations.Files); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return kv.NewPostgresStore(db), func() { db.Close() }, nil
}

func pingDB(ctx context.Context, db *sql.DB) error {
	const (
		maxAttempts = 10
		baseDelay   = time.Second
	)

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()

		if err == nil {
			return nil
		}

		// allow caller to abort early
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping db: %w", err)
		case <-time.After(time.Duration(attempt) * baseDelay):
		}
	}

	return fmt.Errorf("ping db: %w", err)
}
