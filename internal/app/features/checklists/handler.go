// internal/app/features/checklists/handler.go
package checklistsfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
)

// Handler owns the checklist endpoints.
type Handler struct {
	DB         *mongo.Database
	Boards     *boardstore.Store
	Cards      *cardstore.Store
	Checklists *checkliststore.Store
	Cascade    *cascade.Engine
	Log        *zap.Logger
}

// NewHandler constructs a checklists Handler.
func NewHandler(db *mongo.Database, eng *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Boards:     boardstore.New(db),
		Cards:      cardstore.New(db),
		Checklists: checkliststore.New(db),
		Cascade:    eng,
		Log:        logger,
	}
}
