// internal/app/store/checklists/checkliststore.go
package checkliststore

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

var ErrNotFound = errors.New("checklist not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("checklists")}
}

// Create inserts a new checklist.
func (s *Store) Create(ctx context.Context, cl models.Checklist) (models.Checklist, error) {
	now := time.Now().UTC()
	cl.ID = primitive.NewObjectID()
	cl.CreatedAt = now
	cl.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cl); err != nil {
		return models.Checklist{}, err
	}
	return cl, nil
}

// GetByID retrieves a checklist by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Checklist, error) {
	var cl models.Checklist
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cl)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Checklist{}, ErrNotFound
		}
		return models.Checklist{}, err
	}
	return cl, nil
}

// ListForCard returns the card's checklists oldest first, each with its
// todos joined in position order.
func (s *Store) ListForCard(ctx context.Context, cardID primitive.ObjectID) ([]models.ChecklistWithTodos, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"card": cardID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "todos",
			"let":  bson.M{"checklistId": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$checklist", "$$checklistId"}}}},
				bson.M{"$sort": bson.D{{Key: "position", Value: 1}}},
			},
			"as": "todos",
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lists := []models.ChecklistWithTodos{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// IDsForCard returns the ids of the card's checklists, for cascade
// sweeps over their todos.
func (s *Store) IDsForCard(ctx context.Context, cardID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"card": cardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Rename sets the checklist's name.
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

// Delete removes the checklist document (cascade engine handles todos).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCard removes all checklists on a card (cascade step,
// idempotent).
func (s *Store) DeleteByCard(ctx context.Context, cardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"card": cardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all checklists on a board (cascade step,
// idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the checklists collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "card", Value: 1}},
			Options: options.Index().SetName("idx_checklist_card"),
		},
		{
			Keys:    bson.D{{Key: "board", Value: 1}},
			Options: options.Index().SetName("idx_checklist_board"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
