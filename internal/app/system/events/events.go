// Package events is the typed in-process pub/sub bridge between
// mutation handlers and realtime subscribers. Publishers fire and
// forget; delivery to a subscriber is at-least-once while the
// subscription lives, and consumers must treat repeats as idempotent
// (a star toggle event carries the resulting state, not a delta).
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Event is the wire shape delivered to subscribers. Board is the board
// URL slug (the room key); Payload is one of the typed payload structs.
type Event struct {
	Type    string `json:"type"`
	Board   string `json:"board"`
	Payload any    `json:"payload"`
}

// BoardStarred reports the resulting starred state for a user/board pair.
type BoardStarred struct {
	BoardID string `json:"boardId"`
	UserID  string `json:"userId"`
	Starred bool   `json:"starred"`
}

// BoardDeleted notifies subscribers that the room is gone.
type BoardDeleted struct {
	BoardID string `json:"boardId"`
}

// CardMoved reports a card's new list and position.
type CardMoved struct {
	CardID   string  `json:"cardId"`
	ListID   string  `json:"listId"`
	Position float64 `json:"position"`
}

const (
	TypeBoardStarred = "board.starred"
	TypeBoardDeleted = "board.deleted"
	TypeCardMoved    = "card.moved"
)

// subscriber channels are buffered; a subscriber that stops draining
// loses events rather than blocking publishers.
const subscriberBuffer = 16

// Bus fans events out to per-board subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
	log  *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[string]map[chan Event]struct{}),
		log:  logger,
	}
}

// Subscribe registers for a board's events. The returned cancel func
// unregisters and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(board string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[board] == nil {
		b.subs[board] = make(map[chan Event]struct{})
	}
	b.subs[board][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[board], ch)
			if len(b.subs[board]) == 0 {
				delete(b.subs, board)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of its board.
// Slow subscribers are skipped once their buffer fills.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[ev.Board] {
		select {
		case ch <- ev:
		default:
			b.log.Debug("dropping event for slow subscriber",
				zap.String("board", ev.Board),
				zap.String("type", ev.Type))
		}
	}
}

// Subscribers returns the current subscriber count for a board.
func (b *Bus) Subscribers(board string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[board])
}
