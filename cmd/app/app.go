package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/internal/api"
	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/db"
	"github.com/edugamify/classroom-api/internal/logger"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/session"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 15 * time.Second
	purgeInterval   = time.Hour
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.Log.Level); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	config.Watch(configPath, func(next *config.AppConfig) {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from config", zap.Error(err))
			return
		}
		zap.L().Info("log level reloaded", zap.Stringer("level", logger.Level()))
	}, func(err error) {
		zap.L().Debug("config watch", zap.Error(err))
	})

	conn, err := openDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(conn); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := api.NewServer(ctx, conf, conn)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			zap.L().Warn("failed to close backends", zap.Error(err))
		}
	}()

	return run(ctx, s)
}

func openDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.Open(conf.Database)
}

func run(ctx context.Context, s *api.Server) error {
	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop the server gracefully -> %w", err)
		}
		return nil
	})

	if store, ok := s.Sessions.(*session.DBStore); ok {
		g.Go(func() error {
			purgeSessions(gctx, store)
			return nil
		})
	}

	return g.Wait()
}

// purgeSessions drops expired session rows until ctx is done. The redis
// backend expires keys on its own.
func purgeSessions(ctx context.Context, store *session.DBStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				zap.L().Warn("failed to purge sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Debug("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
