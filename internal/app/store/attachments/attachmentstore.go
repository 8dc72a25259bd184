// internal/app/store/attachments/attachmentstore.go
package attachmentstore

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

var ErrNotFound = errors.New("attachment not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attachments")}
}

// Create inserts a new attachment reference.
func (s *Store) Create(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attachment{}, err
	}
	return a, nil
}

// GetByID retrieves an attachment by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Attachment, error) {
	var a models.Attachment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Attachment{}, ErrNotFound
		}
		return models.Attachment{}, err
	}
	return a, nil
}

// ListForCard returns the card's attachments newest first.
func (s *Store) ListForCard(ctx context.Context, cardID primitive.ObjectID) ([]models.Attachment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"card": cardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	attachments := []models.Attachment{}
	if err := cur.All(ctx, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Rename sets the attachment's display name.
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

// Delete removes the attachment document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCard removes all attachments on a card (cascade step,
// idempotent).
func (s *Store) DeleteByCard(ctx context.Context, cardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"card": cardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all attachments on a board (cascade step,
// idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the attachments collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "card", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_attachment_card_created"),
		},
		{
			Keys:    bson.D{{Key: "board", Value: 1}},
			Options: options.Index().SetName("idx_attachment_board"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
