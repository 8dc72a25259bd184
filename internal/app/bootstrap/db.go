// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/emailverify"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store depends on. Index
// creation is idempotent, so this runs on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	stores := map[string]indexer{
		"users":       userstore.New(db),
		"boards":      boardstore.New(db),
		"lists":       liststore.New(db),
		"cards":       cardstore.New(db),
		"checklists":  checkliststore.New(db),
		"todos":       todostore.New(db),
		"comments":    commentstore.New(db),
		"attachments": attachmentstore.New(db),
		"collections": collectionstore.New(db),
		"emailverify": emailverify.New(db),
	}

	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Error("index creation failed", zap.String("store", name), zap.Error(err))
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}

	logger.Info("indexes ensured", zap.Int("stores", len(stores)))
	return nil
}
