// Package cascade owns referential cleanup. Deleting a board, list,
// card, checklist, or collection, and removing a board member, each
// touch several collections; handlers call exactly one Engine method
// and the engine runs every step inside txn.Run so partial cleanup
// cannot be observed. Every step is idempotent, so a retry after a
// fallback (non-replica-set) failure converges.
package cascade

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/collab"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/txn"
)

// Engine runs multi-collection deletes. Rooms is optional; when set,
// board deletion tears down the collaboration room best-effort after
// the transaction commits.
type Engine struct {
	DB  *mongo.Database
	Log *zap.Logger

	Users       *userstore.Store
	Boards      *boardstore.Store
	Lists       *liststore.Store
	Cards       *cardstore.Store
	Checklists  *checkliststore.Store
	Todos       *todostore.Store
	Comments    *commentstore.Store
	Attachments *attachmentstore.Store
	Collections *collectionstore.Store

	Rooms collab.RoomService
	Bus   *events.Bus
}

// DeleteBoard removes the board and every descendant, detaches the
// board id from every user's membership and star sets and from every
// collection, then tears down the collab room and announces the
// deletion on the event bus. The room and event bus key on the board's
// URL slug, so it is resolved before the sweep; a board that is already
// gone makes the whole call a no-op.
func (e *Engine) DeleteBoard(ctx context.Context, boardID primitive.ObjectID) error {
	b, err := e.Boards.GetByID(ctx, boardID)
	if err != nil {
		if err == boardstore.ErrNotFound {
			return nil
		}
		return err
	}

	err = txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		if _, err := e.Todos.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if _, err := e.Checklists.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if _, err := e.Comments.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if _, err := e.Attachments.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if _, err := e.Cards.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if _, err := e.Lists.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if err := e.Users.PullBoardFromAll(ctx, boardID); err != nil {
			return err
		}
		if err := e.Collections.PullBoardFromAll(ctx, boardID); err != nil {
			return err
		}
		_, err := e.Boards.Delete(ctx, boardID)
		return err
	})
	if err != nil {
		return err
	}

	if e.Rooms != nil {
		if err := e.Rooms.DeleteRoom(ctx, b.URL); err != nil {
			e.Log.Warn("collab room teardown failed",
				zap.String("board", b.URL),
				zap.Error(err))
		}
	}
	if e.Bus != nil {
		e.Bus.Publish(events.Event{
			Type:    events.TypeBoardDeleted,
			Board:   b.URL,
			Payload: events.BoardDeleted{BoardID: boardID.Hex()},
		})
	}
	return nil
}

// DeleteList removes the list and all of its cards with their
// descendants. Descendants go card by card; the cards themselves go in
// one sweep.
func (e *Engine) DeleteList(ctx context.Context, listID primitive.ObjectID) error {
	return txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		cs, err := e.Cards.ListForList(ctx, listID)
		if err != nil {
			return err
		}
		for _, c := range cs {
			if err := e.deleteCardDescendants(ctx, c.ID); err != nil {
				return err
			}
		}
		if _, err := e.Cards.DeleteByList(ctx, listID); err != nil {
			return err
		}
		_, err = e.Lists.Delete(ctx, listID)
		return err
	})
}

// DeleteCard removes the card and its checklists, todos, comments, and
// attachments.
func (e *Engine) DeleteCard(ctx context.Context, cardID primitive.ObjectID) error {
	return txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		if err := e.deleteCardDescendants(ctx, cardID); err != nil {
			return err
		}
		_, err := e.Cards.Delete(ctx, cardID)
		return err
	})
}

func (e *Engine) deleteCardDescendants(ctx context.Context, cardID primitive.ObjectID) error {
	checklistIDs, err := e.Checklists.IDsForCard(ctx, cardID)
	if err != nil {
		return err
	}
	if _, err := e.Todos.DeleteByChecklists(ctx, checklistIDs); err != nil {
		return err
	}
	if _, err := e.Checklists.DeleteByCard(ctx, cardID); err != nil {
		return err
	}
	if _, err := e.Comments.DeleteByCard(ctx, cardID); err != nil {
		return err
	}
	_, err = e.Attachments.DeleteByCard(ctx, cardID)
	return err
}

// DeleteChecklist removes the checklist and its todos and keeps the
// owning card's checklist tally in step.
func (e *Engine) DeleteChecklist(ctx context.Context, checklistID, cardID primitive.ObjectID) error {
	return txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		if _, err := e.Todos.DeleteByChecklists(ctx, []primitive.ObjectID{checklistID}); err != nil {
			return err
		}
		n, err := e.Checklists.Delete(ctx, checklistID)
		if err != nil {
			return err
		}
		if n > 0 {
			return e.Cards.AdjustCounter(ctx, cardID, "checklist_count", -1)
		}
		return nil
	})
}

// DeleteCollection removes the collection and detaches it from its
// owner. Referenced boards are untouched.
func (e *Engine) DeleteCollection(ctx context.Context, collectionID, ownerID primitive.ObjectID) error {
	return txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		if err := e.Users.PullCollection(ctx, ownerID, collectionID); err != nil {
			return err
		}
		_, err := e.Collections.Delete(ctx, collectionID)
		return err
	})
}

// RemoveBoardMember withdraws the user from the board: membership on
// both sides, card assignments, and todo assignments.
func (e *Engine) RemoveBoardMember(ctx context.Context, boardID, userID primitive.ObjectID) error {
	return txn.Run(ctx, e.DB, e.Log, func(ctx context.Context) error {
		return e.removeMemberSteps(ctx, boardID, userID)
	})
}

func (e *Engine) removeMemberSteps(ctx context.Context, boardID, userID primitive.ObjectID) error {
	if err := e.Boards.PullMember(ctx, boardID, userID); err != nil {
		return err
	}
	if err := e.Users.RemoveBoard(ctx, userID, boardID); err != nil {
		return err
	}
	if err := e.Cards.PullMemberFromBoard(ctx, boardID, userID); err != nil {
		return err
	}
	return e.Todos.UnassignFromBoard(ctx, boardID, userID)
}
