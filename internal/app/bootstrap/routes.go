// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attachmentsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/attachments"
	authfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/auth"
	boardsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/boards"
	cardsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/cards"
	checklistsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/checklists"
	collectionsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/collections"
	commentsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/comments"
	healthfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/health"
	listsfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/lists"
	todosfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/todos"
	usersfeature "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/users"
	attachmentstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	boardstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	cardstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	checkliststore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	collectionstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	commentstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
	liststore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	todostore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
	userstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/collab"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It builds the shared singletons (session
// manager, mailer, event bus, collab client, cascade engine), then
// mounts every feature router under /api/v1. The health endpoint stays
// outside the versioned prefix for load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	bus := events.NewBus(logger)

	var rooms collab.RoomService
	if appCfg.CollabBaseURL != "" {
		rooms = collab.NewClient(appCfg.CollabBaseURL, appCfg.CollabSecret, logger)
	}

	eng := &cascade.Engine{
		DB:  db,
		Log: logger,

		Users:       userstore.New(db),
		Boards:      boardstore.New(db),
		Lists:       liststore.New(db),
		Cards:       cardstore.New(db),
		Checklists:  checkliststore.New(db),
		Todos:       todostore.New(db),
		Comments:    commentstore.New(db),
		Attachments: attachmentstore.New(db),
		Collections: collectionstore.New(db),

		Rooms: rooms,
		Bus:   bus,
	}

	r := chi.NewRouter()

	// Loads the session user into context for every request.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Route("/health", healthHandler.MountRoutes)

	authHandler := authfeature.NewHandler(db, sessionMgr, mail,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	usersHandler := usersfeature.NewHandler(db, logger)
	boardsHandler := boardsfeature.NewHandler(db, eng, rooms, bus, mail, appCfg.BaseURL, logger)
	listsHandler := listsfeature.NewHandler(db, eng, logger)
	cardsHandler := cardsfeature.NewHandler(db, eng, bus, logger)
	checklistsHandler := checklistsfeature.NewHandler(db, eng, logger)
	todosHandler := todosfeature.NewHandler(db, logger)
	commentsHandler := commentsfeature.NewHandler(db, logger)
	attachmentsHandler := attachmentsfeature.NewHandler(db, logger)
	collectionsHandler := collectionsfeature.NewHandler(db, eng, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", authHandler.MountRoutes)

		api.Group(func(api chi.Router) {
			api.Use(auth.RequireSignedIn)

			api.Route("/users", usersHandler.MountRoutes)

			api.Route("/boards", func(br chi.Router) {
				boardsHandler.MountRoutes(br)
				br.Get("/{boardID}/lists", listsHandler.ListForBoard)
			})

			api.Route("/lists", listsHandler.MountRoutes)

			api.Route("/cards", func(cr chi.Router) {
				cardsHandler.MountRoutes(cr)
				cr.Get("/{cardID}/checklists", checklistsHandler.ListForCard)
				commentsHandler.MountCardRoutes(cr)
				attachmentsHandler.MountCardRoutes(cr)
			})

			api.Route("/checklists", checklistsHandler.MountRoutes)
			api.Route("/todos", todosHandler.MountRoutes)
			api.Route("/comments", commentsHandler.MountRoutes)
			api.Route("/attachments", attachmentsHandler.MountRoutes)
			api.Route("/collections", collectionsHandler.MountRoutes)
		})
	})

	return r, nil
}
