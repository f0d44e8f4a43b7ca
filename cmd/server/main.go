package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/Jean-Jawed/4Films/internal/handlers"
	"github.com/Jean-Jawed/4Films/internal/images"
	"github.com/Jean-Jawed/4Films/internal/logger"
	"github.com/Jean-Jawed/4Films/internal/store"
	"github.com/Jean-Jawed/4Films/internal/tmdb"
	"github.com/Jean-Jawed/4Films/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultPort      = "8080"
	defaultImageBase = "https://image.tmdb.org/t/p"
	sweepInterval    = 10 * time.Minute
)

func main() {
	slog.SetDefault(logger.New(slog.LevelDebug))
	if err := run(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	readToken := os.Getenv("TMDB_API_READ_TOKEN")
	if readToken == "" {
		return errors.New("TMDB_API_READ_TOKEN is required")
	}

	sessionTTL, err := time.ParseDuration(envOr("SESSION_TTL", "12h"))
	if err != nil {
		return fmt.Errorf("bad SESSION_TTL: %w", err)
	}

	st, err := store.Open(envOr("SESSION_DSN", store.DefaultDSN))
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close session store", logger.Error(err))
		}
	}()

	client := tmdb.New(tmdb.Config{
		BaseURL:   os.Getenv("TMDB_BASE_URL"),
		ReadToken: readToken,
		Language:  os.Getenv("TMDB_LANGUAGE"),
		Region:    os.Getenv("TMDB_WATCH_REGION"),
	})

	app, err := handlers.New(&handlers.Config{
		Store:  st,
		TMDB:   client,
		Images: images.NewResolver(envOr("TMDB_IMAGE_BASE_URL", defaultImageBase)),
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	distFS, err := web.Dist()
	if err != nil {
		return fmt.Errorf("failed to load embedded frontend: %w", err)
	}
	spa, err := handlers.SPA(distFS)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
		Level:         slog.LevelInfo,
		RecoverPanics: true,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	app.RegisterRoutes(r)
	r.Handle("/*", spa)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, st, sessionTTL)

	addr := ":" + envOr("PORT", defaultPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweepSessions periodically drops sessions that have been idle longer
// than the TTL.
func sweepSessions(ctx context.Context, st *store.Store, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := st.Sweep(ctx, ttl)
			if err != nil {
				slog.Warn("session sweep failed", logger.Error(err))
				continue
			}
			if removed > 0 {
				slog.Debug("swept sessions", slog.Int64("removed", removed))
			}
		}
	}
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
