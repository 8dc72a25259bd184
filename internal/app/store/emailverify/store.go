// internal/app/store/emailverify/store.go
//
// Pending email verifications. Each pending record holds a bcrypt hash
// of a 6-digit code plus an opaque token that identifies the pending
// verification in the confirm request. Records expire via a TTL index
// and are replaced wholesale on resend.
package emailverify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeTTL is how long a verification code stays valid.
	CodeTTL = 15 * time.Minute

	// ResendCooldown is the minimum gap between sends for one account.
	ResendCooldown = time.Minute
)

var (
	ErrNotFound     = errors.New("no pending verification")
	ErrExpired      = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code does not match")
	ErrTooSoon      = errors.New("verification code was sent recently")
)

// Pending is one in-flight verification.
type Pending struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Email     string             `bson:"email"`
	Token     string             `bson:"token"`
	CodeHash  []byte             `bson:"code_hash"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("email_verifications")}
}

// Issue creates a fresh pending verification for the user, replacing
// any existing one, and returns the token plus the plaintext code to
// email. ErrTooSoon when the previous code was issued inside the
// resend cooldown.
func (s *Store) Issue(ctx context.Context, userID primitive.ObjectID, email string) (token, code string, err error) {
	var prev Pending
	findErr := s.c.FindOne(ctx, bson.M{"user": userID}).Decode(&prev)
	if findErr == nil && time.Since(prev.CreatedAt) < ResendCooldown {
		return "", "", ErrTooSoon
	}
	if findErr != nil && findErr != mongo.ErrNoDocuments {
		return "", "", findErr
	}

	code, err = newCode()
	if err != nil {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	p := Pending{
		User:      userID,
		Email:     email,
		Token:     uuid.NewString(),
		CodeHash:  hash,
		ExpiresAt: now.Add(CodeTTL),
		CreatedAt: now,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"user": userID}, p, opts); err != nil {
		return "", "", err
	}
	return p.Token, code, nil
}

// Confirm checks the code against the pending verification identified
// by token and consumes the record on success. The bcrypt comparison is
// uniform for every code regardless of how it was issued.
func (s *Store) Confirm(ctx context.Context, token, code string) (primitive.ObjectID, error) {
	var p Pending
	err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, ErrNotFound
		}
		return primitive.NilObjectID, err
	}
	if time.Now().UTC().After(p.ExpiresAt) {
		return primitive.NilObjectID, ErrExpired
	}
	if bcrypt.CompareHashAndPassword(p.CodeHash, []byte(code)) != nil {
		return primitive.NilObjectID, ErrCodeMismatch
	}
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": p.ID}); err != nil {
		return primitive.NilObjectID, err
	}
	return p.User, nil
}

// DeleteForUser drops any pending verification for the user
// (idempotent).
func (s *Store) DeleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user": userID})
	return err
}

// EnsureIndexes creates the lookup and TTL indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_emailverify_user"),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_emailverify_token"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_emailverify_ttl"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// newCode returns a random 6-digit code with leading zeros preserved.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
