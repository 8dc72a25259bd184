// internal/app/features/cards/handler.go
package cardsfeat

import (
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
)

// Handler owns the card endpoints.
type Handler struct {
	DB       *mongo.Database
	Boards   *boardstore.Store
	Lists    *liststore.Store
	Cards    *cardstore.Store
	Users    *userstore.Store
	Cascade  *cascade.Engine
	Bus      *events.Bus
	Sanitize *bluemonday.Policy
	Log      *zap.Logger
}

// NewHandler constructs a cards Handler. User-authored description text
// passes through the strict sanitizer before storage.
func NewHandler(db *mongo.Database, eng *cascade.Engine, bus *events.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Boards:   boardstore.New(db),
		Lists:    liststore.New(db),
		Cards:    cardstore.New(db),
		Users:    userstore.New(db),
		Cascade:  eng,
		Bus:      bus,
		Sanitize: bluemonday.StrictPolicy(),
		Log:      logger,
	}
}
