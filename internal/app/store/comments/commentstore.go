// internal/app/store/comments/commentstore.go
package commentstore

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

var ErrNotFound = errors.New("comment not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Create inserts a new comment.
func (s *Store) Create(ctx context.Context, cm models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	cm.ID = primitive.NewObjectID()
	cm.CreatedAt = now
	cm.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cm); err != nil {
		return models.Comment{}, err
	}
	return cm, nil
}

// GetByID retrieves a comment by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var cm models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	return cm, nil
}

// ListForCard returns the card's comments newest first, paginated, with
// the owner reference expanded to a public user document.
func (s *Store) ListForCard(ctx context.Context, cardID primitive.ObjectID, skip, limit int64) ([]models.CommentWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"card": cardID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let":  bson.M{"ownerId": "$owner"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$ownerId"}}}},
				bson.M{"$project": bson.M{
					"_id": 1, "username": 1, "full_name": 1, "initials": 1, "avatar": 1,
				}},
			},
			"as": "owner_user",
		}}},
		{{Key: "$unwind", Value: "$owner_user"}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []models.CommentWithOwner{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SetContent updates the comment's text.
func (s *Store) SetContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
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

// Delete removes the comment document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCard removes all comments on a card (cascade step,
// idempotent).
func (s *Store) DeleteByCard(ctx context.Context, cardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"card": cardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all comments on a board (cascade step,
// idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the comments collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "card", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_comment_card_created"),
		},
		{
			Keys:    bson.D{{Key: "board", Value: 1}},
			Options: options.Index().SetName("idx_comment_board"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
