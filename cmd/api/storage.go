package main

import (
	"context"
	"fmt"
	"log/slog"

	"movielib/proj/internal/config"
	"movielib/proj/internal/services"
	"movielib/proj/internal/storage/memory"
	"movielib/proj/internal/storage/postgres"
	pgmodels "movielib/proj/internal/storage/postgres/models"
	"movielib/proj/internal/storage/redis"
)

// openStorage connects the configured backends. The returned closer
// releases every connection that was opened.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (services.Storage, func(), error) {
	var (
		storage services.Storage
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.DB.Storage {
	case "memory":
		mem := memory.New()
		storage.Movies, storage.Comments, storage.Users = mem.Movie, mem.Comment, mem.User
		log.Warn("using in-memory storage, data will not survive a restart")
	default:
		db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
		if err != nil {
			return storage, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, db.Close)
		if err := db.Migrate(); err != nil {
			closeAll()
			return storage, nil, err
		}
		log.Info("database connection established")
		models := pgmodels.New(db)
		storage.Movies, storage.Comments, storage.Users = models.Movie, models.Comment, models.User
	}

	switch cfg.Session.Store {
	case "memory":
		storage.Sessions = memory.NewSessionModel()
	default:
		client, err := redis.Connect(ctx, cfg.Session.RedisURL)
		if err != nil {
			closeAll()
			return storage, nil, err
		}
		closers = append(closers, func() { client.Close() })
		storage.Sessions = redis.NewSessionStore(client)
		log.Info("redis connection established")
	}
	return storage, closeAll, nil
}
