package main

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-api/internal/sequence"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store/gormstore"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store/mongostore"
	log "github.com/sirupsen/logrus"
)

// backend is an opened store with the resources that must be released on exit.
type backend struct {
	store   *store.Store
	seq     sequence.Sequencer
	closers []func(context.Context) error
}

func (b *backend) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.WithError(err).Warn("Failed to release resource")
		}
	}
}

// openBackend connects to the configured store, prepares its schema and
// picks the account number sequence.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{}

	if cfg.UsesMongo() {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		b.store = mongostore.New(db)
		b.seq = mongostore.NewCounterSequence(db)
	} else {
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return sqlDB.Close() })
		if err := gormstore.Migrate(db); err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		b.store = gormstore.New(db)
		b.seq = gormstore.NewCounterSequence(db)
	}

	if cfg.SequenceBackend == config.SequenceRedis {
		redisSeq, err := sequence.NewRedisSequencerFromURL(ctx, cfg.RedisURL)
		if err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return redisSeq.Close() })
		b.seq = redisSeq
	}
	return b, nil
}
