// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
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
	ErrDuplicateUsername = errors.New("this username is already taken")
	ErrDuplicateEmail    = errors.New("an account with this email already exists")
	ErrNotFound          = errors.New("user not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Membership/star/collection sets start
// empty but non-nil so later $addToSet/$pull updates behave uniformly.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.UsernameCI = text.Fold(u.Username)
	if u.Boards == nil {
		u.Boards = []primitive.ObjectID{}
	}
	if u.StarredBoards == nil {
		u.StarredBoards = []primitive.ObjectID{}
	}
	if u.Collections == nil {
		u.Collections = []primitive.ObjectID{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID retrieves a user by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByUsername retrieves a user by case-folded username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// UsernameExists reports whether the username is taken (case-folded).
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"username_ci": text.Fold(username)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search finds users by username or full-name prefix for the invite
// picker, newest-updated first.
func (s *Store) Search(ctx context.Context, q string, skip, limit int64) ([]models.PublicUser, error) {
	folded := text.Fold(q)
	filter := bson.M{"$or": bson.A{
		bson.M{"username_ci": bson.M{"$regex": "^" + regexEscape(folded)}},
		bson.M{"full_name": bson.M{"$regex": regexEscape(q), "$options": "i"}},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"_id": 1, "username": 1, "full_name": 1, "initials": 1, "avatar": 1})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.PublicUser{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetVerified marks the account verified.
func (s *Store) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_verified": true,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile updates the user's mutable display fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, initials, avatar string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fullName != "" {
		set["full_name"] = fullName
		set["initials"] = initials
	}
	if avatar != "" {
		set["avatar"] = avatar
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddBoard records board membership on the user (idempotent).
func (s *Store) AddBoard(ctx context.Context, userID, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"boards": boardID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveBoard drops board membership and any star for it (idempotent).
func (s *Store) RemoveBoard(ctx context.Context, userID, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"boards": boardID, "starred_boards": boardID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddStar adds the board to the user's starred set (idempotent).
func (s *Store) AddStar(ctx context.Context, userID, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"starred_boards": boardID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveStar removes the board from the user's starred set (idempotent).
func (s *Store) RemoveStar(ctx context.Context, userID, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"starred_boards": boardID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddCollection records collection ownership on the user (idempotent).
func (s *Store) AddCollection(ctx context.Context, userID, collectionID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"collections": collectionID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullCollection detaches a deleted collection from its owner
// (idempotent).
func (s *Store) PullCollection(ctx context.Context, userID, collectionID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"collections": collectionID},
	})
	return err
}

// PullBoardFromAll removes a deleted board from every user's boards and
// starred_boards. Part of the board deletion cascade; idempotent.
func (s *Store) PullBoardFromAll(ctx context.Context, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"boards": boardID},
			bson.M{"starred_boards": boardID},
		}},
		bson.M{"$pull": bson.M{"boards": boardID, "starred_boards": boardID}},
	)
	return err
}

// PublicByIDs fetches the public projection for a set of user ids.
func (s *Store) PublicByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PublicUser, error) {
	if len(ids) == 0 {
		return []models.PublicUser{}, nil
	}
	opts := options.Find().SetProjection(bson.M{
		"_id": 1, "username": 1, "full_name": 1, "initials": 1, "avatar": 1,
	})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.PublicUser{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureIndexes creates indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_username_ci"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email"),
		},
		{
			Keys:    bson.D{{Key: "boards", Value: 1}},
			Options: options.Index().SetName("idx_user_boards"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// regexEscape quotes regex metacharacters in user-supplied search input.
func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}
