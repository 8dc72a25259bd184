// internal/app/store/collections/collectionstore.go
package collectionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("collection not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("collections")}
}

// Create inserts a new collection with an empty but non-nil board set.
func (s *Store) Create(ctx context.Context, col models.Collection) (models.Collection, error) {
	now := time.Now().UTC()
	col.ID = primitive.NewObjectID()
	col.NameCI = text.Fold(col.Name)
	if col.Boards == nil {
		col.Boards = []primitive.ObjectID{}
	}
	col.CreatedAt = now
	col.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, col); err != nil {
		return models.Collection{}, err
	}
	return col, nil
}

// GetByID retrieves a collection by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Collection, error) {
	var col models.Collection
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&col)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Collection{}, ErrNotFound
		}
		return models.Collection{}, err
	}
	return col, nil
}

// ListForOwner returns the owner's collections, most recently updated
// first, paginated.
func (s *Store) ListForOwner(ctx context.Context, ownerID primitive.ObjectID, skip, limit int64) ([]models.Collection, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cols := []models.Collection{}
	if err := cur.All(ctx, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// Rename sets the collection's name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
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

// AddBoard adds the board reference to the collection (idempotent).
func (s *Store) AddBoard(ctx context.Context, collectionID, boardID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, collectionID, bson.M{
		"$addToSet": bson.M{"boards": boardID},
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

// PullBoard removes the board reference from the collection
// (idempotent).
func (s *Store) PullBoard(ctx context.Context, collectionID, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, collectionID, bson.M{
		"$pull": bson.M{"boards": boardID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullBoardFromAll removes a deleted board's id from every collection
// that references it. Part of the board deletion cascade; idempotent.
func (s *Store) PullBoardFromAll(ctx context.Context, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"boards": boardID},
		bson.M{"$pull": bson.M{"boards": boardID}},
	)
	return err
}

// Delete removes the collection document. Referenced boards are not
// touched.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the collections collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_collection_owner_updated"),
		},
		{
			Keys:    bson.D{{Key: "boards", Value: 1}},
			Options: options.Index().SetName("idx_collection_boards"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
