// internal/app/features/collections/handler.go
package collectionsfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
)

// Handler owns the collection endpoints.
type Handler struct {
	DB          *mongo.Database
	Users       *userstore.Store
	Boards      *boardstore.Store
	Collections *collectionstore.Store
	Cascade     *cascade.Engine
	Log         *zap.Logger
}

// NewHandler constructs a collections Handler.
func NewHandler(db *mongo.Database, eng *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Users:       userstore.New(db),
		Boards:      boardstore.New(db),
		Collections: collectionstore.New(db),
		Cascade:     eng,
		Log:         logger,
	}
}
