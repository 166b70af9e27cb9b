package store

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"signalviz/internal/platform/config"
	dErrors "signalviz/pkg/domain-errors"
)

// New selects the backend from configuration: MongoDB when a URI is set,
// the JSON file otherwise. The returned closer releases backend resources
// on shutdown and is always safe to call.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (RecordStore, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if cfg.MongoURI == "" {
		fs, err := NewFile(cfg.DataFile, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using file-backed record store", "path", cfg.DataFile)
		return fs, noop, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, noop, dErrors.Wrap(dErrors.CodeUnavailable, "failed to connect to mongodb", err)
	}
	ms, err := NewMongo(ctx, client, cfg.MongoDatabase, cfg.MongoCollection)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, noop, err
	}
	logger.Info("using mongodb record store",
		"database", cfg.MongoDatabase,
		"collection", cfg.MongoCollection,
	)
	return ms, client.Disconnect, nil
}
