package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/ashherx/coin-bounce/internal/db"
	"github.com/ashherx/coin-bounce/internal/handler"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

// @title coin-bounce API
// @version 1.0
// @description Blog backend with cookie based JWT sessions.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

type store interface {
	service.AuthRepository
	service.BlogRepository
	service.CommentRepository
}

func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}
	authSvc, err := service.NewAuthService(repo, tokens, cfg.Auth, log.With("component", "auth"))
	if err != nil {
		return err
	}
	images, err := service.NewImageStore(cfg.Storage)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Services{
		Auth:     authSvc,
		Blogs:    service.NewBlogService(repo, images, log.With("component", "blog")),
		Comments: service.NewCommentService(repo, log.With("component", "comment")),
		Images:   images,
	}, cfg.CORS, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info(context.Background(), "server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log logging.Logger) (store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Driver)) {
	case "memory":
		log.Warn(ctx, "using in-memory store; data is lost on restart")
		return db.NewMemory(), func() {}, nil
	case "", "postgres":
		pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		pg := db.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate: %w", err)
		}
		return pg, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", service.ErrMisconfigured, cfg.Store.Driver)
	}
}
