// internal/app/store/lists/liststore.go
package liststore

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

var ErrNotFound = errors.New("list not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("lists")}
}

// Create inserts a new list.
func (s *Store) Create(ctx context.Context, l models.List) (models.List, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.List{}, err
	}
	return l, nil
}

// GetByID retrieves a list by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.List, error) {
	var l models.List
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.List{}, ErrNotFound
		}
		return models.List{}, err
	}
	return l, nil
}

// ListForBoard returns the board's lists in position order, each with
// its cards joined in position order.
func (s *Store) ListForBoard(ctx context.Context, boardID primitive.ObjectID) ([]models.ListWithCards, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"board": boardID}}},
		{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "cards",
			"let":  bson.M{"listId": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$list", "$$listId"}}}},
				bson.M{"$sort": bson.D{{Key: "position", Value: 1}}},
			},
			"as": "cards",
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lists := []models.ListWithCards{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// MaxPosition returns the highest position on the board, so new lists
// append at the end. Zero when the board has no lists.
func (s *Store) MaxPosition(ctx context.Context, boardID primitive.ObjectID) (float64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var l models.List
	err := s.c.FindOne(ctx, bson.M{"board": boardID}, opts).Decode(&l)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return l.Position, nil
}

// Rename sets the list's name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPosition sets the ordering key directly; callers choose values
// that yield the relative order they want.
func (s *Store) SetPosition(ctx context.Context, id primitive.ObjectID, pos float64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"position":   pos,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the list document (cascade engine handles its cards).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all lists on a board (cascade step, idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the lists collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "board", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_list_board_position"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
