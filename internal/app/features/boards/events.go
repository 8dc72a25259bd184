// internal/app/features/boards/events.go
package boardsfeat

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/boardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Session cookie auth happens before the upgrade; cross-origin
	// browser clients carry the cookie with the handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Events handles GET /boards/{slug}/events: a websocket stream of the
// board's typed events. Membership is checked before the upgrade.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	boardSlug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	b, err := h.Boards.GetBySlug(ctx, boardSlug)
	cancel()
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("slug", boardSlug))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !boardpolicy.CanView(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade wrote its own error response.
		h.Log.Debug("websocket upgrade failed", zap.Error(err), zap.String("slug", boardSlug))
		return
	}

	ch, unsubscribe := h.Bus.Subscribe(boardSlug)
	defer unsubscribe()

	h.Log.Debug("event subscriber connected",
		zap.String("board", boardSlug), zap.String("user", principal.Hex()))

	// Reader: drain and surface disconnects. Clients do not send
	// application messages on this stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
