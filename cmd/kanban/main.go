package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YusovID/kanban-service/internal/config"
	"github.com/YusovID/kanban-service/internal/repository/postgres"
	"github.com/YusovID/kanban-service/internal/service"
	myhttp "github.com/YusovID/kanban-service/internal/transport/http"
	"github.com/YusovID/kanban-service/pkg/logger/sl"
	"github.com/YusovID/kanban-service/pkg/logger/slogpretty"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting kanban-service", slog.String("env", cfg.Env))

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	users := postgres.NewUserRepository(log)
	tokens := postgres.NewTokenRepository(log)
	boards := postgres.NewBoardRepository(log)
	tasks := postgres.NewTaskRepository(log)
	comments := postgres.NewCommentRepository(log)

	srv := myhttp.NewServer(log, db, myhttp.Services{
		Auth:     service.NewAuthService(db.DB(), log, users, tokens, cfg.Auth.BcryptCost),
		Boards:   service.NewBoardService(db.DB(), log, boards, users, tasks),
		Tasks:    service.NewTaskService(db.DB(), log, tasks, boards, users),
		Comments: service.NewCommentService(db.DB(), log, comments, tasks, boards),
	}, cfg.Server.CORSOrigins)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %w", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	log.Info("server stopped")

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan<- error) {
	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("error listening and serving: %w", err)
	}
}
