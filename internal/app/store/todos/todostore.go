// internal/app/store/todos/todostore.go
package todostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("todo not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("todos")}
}

// Create inserts a new todo.
func (s *Store) Create(ctx context.Context, t models.Todo) (models.Todo, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.AssignedTo == nil {
		t.AssignedTo = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Todo{}, err
	}
	return t, nil
}

// GetByID retrieves a todo by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Todo, error) {
	var t models.Todo
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, err
	}
	return t, nil
}

// ListForChecklist returns the checklist's todos in position order.
func (s *Store) ListForChecklist(ctx context.Context, checklistID primitive.ObjectID) ([]models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"checklist": checklistID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	todos := []models.Todo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// MaxPosition returns the highest position in the checklist. Zero when
// the checklist has no todos.
func (s *Store) MaxPosition(ctx context.Context, checklistID primitive.ObjectID) (float64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var t models.Todo
	err := s.c.FindOne(ctx, bson.M{"checklist": checklistID}, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return t.Position, nil
}

// SetContent updates the todo's text.
func (s *Store) SetContent(ctx context.Context, id primitive.ObjectID, content string) error {
	return s.set(ctx, id, bson.M{"content": content})
}

// SetComplete toggles completion.
func (s *Store) SetComplete(ctx context.Context, id primitive.ObjectID, complete bool) error {
	return s.set(ctx, id, bson.M{"complete": complete})
}

// SetPosition sets the ordering key within the checklist.
func (s *Store) SetPosition(ctx context.Context, id primitive.ObjectID, pos float64) error {
	return s.set(ctx, id, bson.M{"position": pos})
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign adds the user to the todo's assignee set (idempotent).
func (s *Store) Assign(ctx context.Context, todoID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, todoID, bson.M{
		"$addToSet": bson.M{"assigned_to": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Unassign removes the user from the todo's assignee set (idempotent).
func (s *Store) Unassign(ctx context.Context, todoID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, todoID, bson.M{
		"$pull": bson.M{"assigned_to": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes the todo document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByChecklists removes all todos under the named checklists
// (cascade step, idempotent).
func (s *Store) DeleteByChecklists(ctx context.Context, checklistIDs []primitive.ObjectID) (int64, error) {
	if len(checklistIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"checklist": bson.M{"$in": checklistIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all todos on a board (cascade step, idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UnassignFromBoard removes the user from every todo's assignee set on
// the board. Used when a member leaves or is removed; idempotent.
func (s *Store) UnassignFromBoard(ctx context.Context, boardID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"board": boardID, "assigned_to": userID},
		bson.M{"$pull": bson.M{"assigned_to": userID}},
	)
	return err
}

// EnsureIndexes creates indexes for the todos collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "checklist", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_todo_checklist_position"),
		},
		{
			Keys:    bson.D{{Key: "board", Value: 1}},
			Options: options.Index().SetName("idx_todo_board"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
