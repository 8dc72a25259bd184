// internal/app/features/todos/handler.go
package todosfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
)

// Handler owns the todo endpoints.
type Handler struct {
	DB         *mongo.Database
	Boards     *boardstore.Store
	Checklists *checkliststore.Store
	Todos      *todostore.Store
	Log        *zap.Logger
}

// NewHandler constructs a todos Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Boards:     boardstore.New(db),
		Checklists: checkliststore.New(db),
		Todos:      todostore.New(db),
		Log:        logger,
	}
}
