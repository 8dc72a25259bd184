package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/slug"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "correct-horse-battery"

// CreateUser creates a verified user with the given username. The email
// is derived from the username.
func (f *Fixtures) CreateUser(ctx context.Context, username, fullName string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("bcrypt: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Username:      username,
		UsernameCI:    text.Fold(username),
		Email:         username + "@example.com",
		FullName:      fullName,
		Initials:      normalize.Initials(fullName),
		PasswordHash:  string(hash),
		IsVerified:    true,
		Boards:        []primitive.ObjectID{},
		StarredBoards: []primitive.ObjectID{},
		Collections:   []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateUnverifiedUser creates a user that has not confirmed their
// email yet.
func (f *Fixtures) CreateUnverifiedUser(ctx context.Context, username, fullName string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, username, fullName)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		map[string]any{"$set": map[string]any{"is_verified": false}}); err != nil {
		f.t.Fatalf("failed to unverify test user: %v", err)
	}
	u.IsVerified = false
	return u
}

// CreateBoard creates a board administered by admin, with the admin and
// any extra members in the member set, and records membership on each
// user document.
func (f *Fixtures) CreateBoard(ctx context.Context, name string, admin models.User, members ...models.User) models.Board {
	f.t.Helper()

	memberIDs := []primitive.ObjectID{admin.ID}
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	now := time.Now().UTC()
	b := models.Board{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		URL:       slug.New(slug.DefaultLength),
		Admin:     admin.ID,
		Members:   memberIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("boards").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test board: %v", err)
	}
	for _, id := range memberIDs {
		if _, err := f.db.Collection("users").UpdateByID(ctx, id,
			map[string]any{"$addToSet": map[string]any{"boards": b.ID}}); err != nil {
			f.t.Fatalf("failed to record board membership: %v", err)
		}
	}
	return b
}

// CreateList creates a list on the board at the given position.
func (f *Fixtures) CreateList(ctx context.Context, board models.Board, name string, position float64) models.List {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.List{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Position:  position,
		Board:     board.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("lists").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test list: %v", err)
	}
	return l
}

// CreateCard creates a card on the list at the given position.
func (f *Fixtures) CreateCard(ctx context.Context, list models.List, name string, position float64) models.Card {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Card{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      slug.New(slug.DefaultLength),
		List:      list.ID,
		Board:     list.Board,
		Position:  position,
		Members:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("cards").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test card: %v", err)
	}
	return c
}

// CreateChecklist creates a checklist on the card.
func (f *Fixtures) CreateChecklist(ctx context.Context, card models.Card, name string, createdBy models.User) models.Checklist {
	f.t.Helper()

	now := time.Now().UTC()
	cl := models.Checklist{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Card:      card.ID,
		Board:     card.Board,
		CreatedBy: createdBy.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("checklists").InsertOne(ctx, cl); err != nil {
		f.t.Fatalf("failed to create test checklist: %v", err)
	}
	return cl
}

// CreateTodo creates a todo on the checklist at the given position.
func (f *Fixtures) CreateTodo(ctx context.Context, checklist models.Checklist, content string, position float64) models.Todo {
	f.t.Helper()

	now := time.Now().UTC()
	td := models.Todo{
		ID:         primitive.NewObjectID(),
		Content:    content,
		Position:   position,
		Checklist:  checklist.ID,
		Board:      checklist.Board,
		AssignedTo: []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("todos").InsertOne(ctx, td); err != nil {
		f.t.Fatalf("failed to create test todo: %v", err)
	}
	return td
}

// CreateComment creates a comment on the card owned by the given user.
func (f *Fixtures) CreateComment(ctx context.Context, card models.Card, owner models.User, content string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	cm := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Card:      card.ID,
		Board:     card.Board,
		Owner:     owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, cm); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return cm
}

// CreateAttachment creates a link attachment on the card.
func (f *Fixtures) CreateAttachment(ctx context.Context, card models.Card, attachedBy models.User, name, url string) models.Attachment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Attachment{
		ID:            primitive.NewObjectID(),
		URL:           url,
		Name:          name,
		IsWebsiteLink: true,
		Card:          card.ID,
		Board:         card.Board,
		AttachedBy:    attachedBy.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("attachments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test attachment: %v", err)
	}
	return a
}

// CreateCollection creates a collection owned by the given user with
// the given board references.
func (f *Fixtures) CreateCollection(ctx context.Context, owner models.User, name string, boards ...models.Board) models.Collection {
	f.t.Helper()

	boardIDs := []primitive.ObjectID{}
	for _, b := range boards {
		boardIDs = append(boardIDs, b.ID)
	}

	now := time.Now().UTC()
	col := models.Collection{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Owner:     owner.ID,
		Boards:    boardIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("collections").InsertOne(ctx, col); err != nil {
		f.t.Fatalf("failed to create test collection: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, owner.ID,
		map[string]any{"$addToSet": map[string]any{"collections": col.ID}}); err != nil {
		f.t.Fatalf("failed to record collection ownership: %v", err)
	}
	return col
}
