package userstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
	"github.com/tanish435/Project-Management-Application-sub001/internal/testutil"
)

func TestCreate_DuplicateUsernameFoldsCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	if _, err := store.Create(ctx, models.User{
		Username: "Ada",
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := store.Create(ctx, models.User{
		Username: "ADA",
		Email:    "other@example.com",
		FullName: "Someone Else",
	})
	if err != userstore.ErrDuplicateUsername {
		t.Errorf("case-folded duplicate: got %v, want ErrDuplicateUsername", err)
	}
}

func TestGetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "grace", "Grace Hopper")

	u, err := store.GetByUsername(ctx, "GRACE")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u.Username != "grace" {
		t.Errorf("username: got %q", u.Username)
	}

	if _, err := store.GetByUsername(ctx, "nobody"); err != userstore.ErrNotFound {
		t.Errorf("unknown username: got %v, want ErrNotFound", err)
	}
}

func TestPullBoardFromAll_ClearsBothSets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	if err := store.AddStar(ctx, member.ID, board.ID); err != nil {
		t.Fatalf("AddStar: %v", err)
	}

	if err := store.PullBoardFromAll(ctx, board.ID); err != nil {
		t.Fatalf("PullBoardFromAll: %v", err)
	}

	for _, id := range []primitive.ObjectID{admin.ID, member.ID} {
		u, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if len(u.Boards) != 0 {
			t.Errorf("user %s: boards backref should be empty, got %v", u.Username, u.Boards)
		}
		if len(u.StarredBoards) != 0 {
			t.Errorf("user %s: starred_boards should be empty, got %v", u.Username, u.StarredBoards)
		}
	}
}
