// internal/app/features/attachments/handler.go
package attachmentsfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
)

// Handler owns the attachment endpoints.
type Handler struct {
	DB          *mongo.Database
	Boards      *boardstore.Store
	Cards       *cardstore.Store
	Attachments *attachmentstore.Store
	Log         *zap.Logger
}

// NewHandler constructs an attachments Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Boards:      boardstore.New(db),
		Cards:       cardstore.New(db),
		Attachments: attachmentstore.New(db),
		Log:         logger,
	}
}
