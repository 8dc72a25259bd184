// internal/app/store/boards/boardstore.go
package boardstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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

var (
	ErrDuplicateSlug = errors.New("board slug collision")
	ErrNotFound      = errors.New("board not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("boards")}
}

// Create inserts a new board. The admin is added to members here so the
// membership predicate never needs to special-case the admin.
func (s *Store) Create(ctx context.Context, b models.Board) (models.Board, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.NameCI = text.Fold(b.Name)
	if !b.HasMember(b.Admin) {
		b.Members = append(b.Members, b.Admin)
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Board{}, ErrDuplicateSlug
		}
		return models.Board{}, err
	}
	return b, nil
}

// GetByID retrieves a board by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Board, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

// GetBySlug retrieves a board by its public URL slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Board, error) {
	return s.getOne(ctx, bson.M{"url": slug})
}

func (s *Store) getOne(ctx context.Context, filter bson.M) (models.Board, error) {
	var b models.Board
	err := s.c.FindOne(ctx, filter).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Board{}, ErrNotFound
		}
		return models.Board{}, err
	}
	return b, nil
}

// GetWithMembers retrieves a board with its admin and member references
// expanded to public user documents via $lookup. Credential and email
// fields never leave the pipeline.
func (s *Store) GetWithMembers(ctx context.Context, filter bson.M) (models.BoardWithMembers, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.M{
			"from":     "users",
			"let":      bson.M{"adminId": "$admin"},
			"pipeline": publicUserPipeline(bson.M{"$eq": bson.A{"$_id", "$$adminId"}}),
			"as":       "admin_user",
		}}},
		{{Key: "$unwind", Value: "$admin_user"}},
		{{Key: "$lookup", Value: bson.M{
			"from":     "users",
			"let":      bson.M{"memberIds": "$members"},
			"pipeline": publicUserPipeline(bson.M{"$in": bson.A{"$_id", "$$memberIds"}}),
			"as":       "member_users",
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.BoardWithMembers{}, err
	}
	defer cur.Close(ctx)

	var out []models.BoardWithMembers
	if err := cur.All(ctx, &out); err != nil {
		return models.BoardWithMembers{}, err
	}
	if len(out) == 0 {
		return models.BoardWithMembers{}, ErrNotFound
	}
	return out[0], nil
}

func publicUserPipeline(match bson.M) bson.A {
	return bson.A{
		bson.M{"$match": bson.M{"$expr": match}},
		bson.M{"$project": bson.M{
			"_id": 1, "username": 1, "full_name": 1, "initials": 1, "avatar": 1,
		}},
	}
}

// ListForUser returns the boards the user is a member of, most recently
// updated first, paginated.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Board, error) {
	return s.list(ctx, bson.M{"members": userID}, skip, limit)
}

// ListByIDs returns the named boards, most recently updated first,
// paginated. Ids that no longer resolve are silently absent, which is
// how dangling references in old starred/collection sets degrade.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID, skip, limit int64) ([]models.Board, error) {
	if len(ids) == 0 {
		return []models.Board{}, nil
	}
	return s.list(ctx, bson.M{"_id": bson.M{"$in": ids}}, skip, limit)
}

func (s *Store) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Board, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	boards := []models.Board{}
	if err := cur.All(ctx, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// Rename sets the board's name.
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

// AddMember adds the user to the board's member set (idempotent).
func (s *Store) AddMember(ctx context.Context, boardID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, boardID, bson.M{
		"$addToSet": bson.M{"members": userID},
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

// PullMember removes the user from the board's member set (idempotent).
func (s *Store) PullMember(ctx context.Context, boardID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, boardID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes the board document. The cascade engine owns the
// surrounding cleanup; this is just the final step.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Touch bumps updated_at, used when descendants change so the board
// sorts to the top of recently-updated lists.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}})
	return err
}

// EnsureIndexes creates indexes for the boards collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_board_url"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_board_members"),
		},
		{
			Keys:    bson.D{{Key: "admin", Value: 1}},
			Options: options.Index().SetName("idx_board_admin"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
