// internal/app/features/lists/handler.go
package listsfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
)

// Handler owns the list endpoints.
type Handler struct {
	DB      *mongo.Database
	Boards  *boardstore.Store
	Lists   *liststore.Store
	Cascade *cascade.Engine
	Log     *zap.Logger
}

// NewHandler constructs a lists Handler.
func NewHandler(db *mongo.Database, eng *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Boards:  boardstore.New(db),
		Lists:   liststore.New(db),
		Cascade: eng,
		Log:     logger,
	}
}
