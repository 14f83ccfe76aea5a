package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/config"
	"github.com/yourusername/racing-predictor/internal/database"
	"github.com/yourusername/racing-predictor/internal/history"
)

// NewStore builds the configured persistence backend. The returned cleanup
// function releases whatever handle the backend holds and is safe to call
// once, even for backends without one.
func NewStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (history.Store, func(), error) {
	noop := func() {}

	switch cfg.History.Backend {
	case "csv":
		return NewFileStore(cfg.History.CSVPath, logger), noop, nil

	case "sqlite":
		store, err := NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "postgres":
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case "cloudtable":
		return NewCloudTableStore(&cfg.CloudTable, logger), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
