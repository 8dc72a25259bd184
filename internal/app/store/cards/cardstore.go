// internal/app/store/cards/cardstore.go
package cardstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	ErrDuplicateSlug = errors.New("card slug collision")
	ErrNotFound      = errors.New("card not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cards")}
}

// Create inserts a new card. Members starts non-nil so later
// $addToSet/$pull updates behave uniformly.
func (s *Store) Create(ctx context.Context, c models.Card) (models.Card, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Members == nil {
		c.Members = []primitive.ObjectID{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Card{}, ErrDuplicateSlug
		}
		return models.Card{}, err
	}
	return c, nil
}

// GetByID retrieves a card by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Card, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

// GetBySlug retrieves a card by its public slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Card, error) {
	return s.getOne(ctx, bson.M{"slug": slug})
}

func (s *Store) getOne(ctx context.Context, filter bson.M) (models.Card, error) {
	var c models.Card
	err := s.c.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Card{}, ErrNotFound
		}
		return models.Card{}, err
	}
	return c, nil
}

// GetDetail retrieves a card with its member references expanded to
// public user documents and its checklists joined.
func (s *Store) GetDetail(ctx context.Context, filter bson.M) (models.CardDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let":  bson.M{"memberIds": "$members"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", "$$memberIds"}}}},
				bson.M{"$project": bson.M{
					"_id": 1, "username": 1, "full_name": 1, "initials": 1, "avatar": 1,
				}},
			},
			"as": "member_users",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "checklists",
			"let":  bson.M{"cardId": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$card", "$$cardId"}}}},
				bson.M{"$sort": bson.D{{Key: "created_at", Value: 1}}},
			},
			"as": "checklists",
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.CardDetail{}, err
	}
	defer cur.Close(ctx)

	var out []models.CardDetail
	if err := cur.All(ctx, &out); err != nil {
		return models.CardDetail{}, err
	}
	if len(out) == 0 {
		return models.CardDetail{}, ErrNotFound
	}
	return out[0], nil
}

// ListForList returns the list's cards in position order.
func (s *Store) ListForList(ctx context.Context, listID primitive.ObjectID) ([]models.Card, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"list": listID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cards := []models.Card{}
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListAssignedTo returns the cards the user is a member of across all
// boards, most recently updated first, paginated.
func (s *Store) ListAssignedTo(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Card, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	cards := []models.Card{}
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// MaxPosition returns the highest position in the list, so new cards
// append at the end. Zero when the list has no cards.
func (s *Store) MaxPosition(ctx context.Context, listID primitive.ObjectID) (float64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var c models.Card
	err := s.c.FindOne(ctx, bson.M{"list": listID}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return c.Position, nil
}

// Rename sets the card's name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	return s.set(ctx, id, bson.M{"name": name})
}

// SetDescription sets (or clears) the card's description.
func (s *Store) SetDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	return s.set(ctx, id, bson.M{"description": description})
}

// SetDueDate sets or clears the card's due date.
func (s *Store) SetDueDate(ctx context.Context, id primitive.ObjectID, due *time.Time) error {
	if due == nil {
		res, err := s.c.UpdateByID(ctx, id, bson.M{
			"$unset": bson.M{"due_date": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}
	return s.set(ctx, id, bson.M{"due_date": due.UTC()})
}

// Move reassigns the card to a list at the given position. The target
// list must belong to the same board; callers enforce that before
// calling.
func (s *Store) Move(ctx context.Context, id, listID primitive.ObjectID, pos float64) error {
	return s.set(ctx, id, bson.M{"list": listID, "position": pos})
}

// SetPosition sets the ordering key within the current list.
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

// AddMember assigns the user to the card (idempotent).
func (s *Store) AddMember(ctx context.Context, cardID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, cardID, bson.M{
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

// PullMember unassigns the user from the card (idempotent).
func (s *Store) PullMember(ctx context.Context, cardID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, cardID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AdjustCounter bumps one of the denormalized tallies by delta. The
// floor at zero guards repeated cascade sweeps.
func (s *Store) AdjustCounter(ctx context.Context, cardID primitive.ObjectID, field string, delta int) error {
	_, err := s.c.UpdateByID(ctx, cardID, bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if delta < 0 {
		_, err = s.c.UpdateOne(ctx,
			bson.M{"_id": cardID, field: bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{field: 0}},
		)
	}
	return err
}

// Delete removes the card document (cascade engine handles descendants).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByList removes all cards on a list (cascade step, idempotent).
func (s *Store) DeleteByList(ctx context.Context, listID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"list": listID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByBoard removes all cards on a board (cascade step, idempotent).
func (s *Store) DeleteByBoard(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"board": boardID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PullMemberFromBoard unassigns the user from every card on the board.
// Used when a member leaves or is removed; idempotent.
func (s *Store) PullMemberFromBoard(ctx context.Context, boardID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"board": boardID, "members": userID},
		bson.M{"$pull": bson.M{"members": userID}},
	)
	return err
}

// EnsureIndexes creates indexes for the cards collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_card_slug"),
		},
		{
			Keys:    bson.D{{Key: "list", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_card_list_position"),
		},
		{
			Keys:    bson.D{{Key: "board", Value: 1}},
			Options: options.Index().SetName("idx_card_board"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_card_members"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
