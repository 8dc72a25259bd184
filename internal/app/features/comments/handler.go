// internal/app/features/comments/handler.go
package commentsfeat

import (
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
)

// Handler owns the comment endpoints.
type Handler struct {
	DB       *mongo.Database
	Boards   *boardstore.Store
	Cards    *cardstore.Store
	Comments *commentstore.Store
	Sanitize *bluemonday.Policy
	Log      *zap.Logger
}

// NewHandler constructs a comments Handler. Comment text passes through
// the strict sanitizer before storage.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Boards:   boardstore.New(db),
		Cards:    cardstore.New(db),
		Comments: commentstore.New(db),
		Sanitize: bluemonday.StrictPolicy(),
		Log:      logger,
	}
}
