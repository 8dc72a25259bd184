// internal/app/features/boards/handler.go
package boardsfeat

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/collab"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
)

// Handler owns the board endpoints: CRUD, stars, membership, the
// realtime event stream, and collab room tokens.
type Handler struct {
	DB      *mongo.Database
	Boards  *boardstore.Store
	Users   *userstore.Store
	Cascade *cascade.Engine
	Rooms   collab.RoomService
	Bus     *events.Bus
	Mail    *mailer.Mailer
	BaseURL string
	Log     *zap.Logger
}

// NewHandler constructs a boards Handler.
func NewHandler(
	db *mongo.Database,
	eng *cascade.Engine,
	rooms collab.RoomService,
	bus *events.Bus,
	mail *mailer.Mailer,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:      db,
		Boards:  boardstore.New(db),
		Users:   userstore.New(db),
		Cascade: eng,
		Rooms:   rooms,
		Bus:     bus,
		Mail:    mail,
		BaseURL: baseURL,
		Log:     logger,
	}
}
