package boardsfeat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	boardsfeat "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/boards"
	attachmentstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	boardstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	cardstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cascade"
	checkliststore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	collectionstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	commentstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
	liststore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	todostore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
	userstore "github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
	"github.com/tanish435/Project-Management-Application-sub001/internal/testutil"
)

func newEngine(db *mongo.Database, bus *events.Bus) *cascade.Engine {
	return &cascade.Engine{
		DB:          db,
		Log:         zap.NewNop(),
		Users:       userstore.New(db),
		Boards:      boardstore.New(db),
		Lists:       liststore.New(db),
		Cards:       cardstore.New(db),
		Checklists:  checkliststore.New(db),
		Todos:       todostore.New(db),
		Comments:    commentstore.New(db),
		Attachments: attachmentstore.New(db),
		Collections: collectionstore.New(db),
		Bus:         bus,
	}
}

func newTestHandler(t *testing.T) (*boardsfeat.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	bus := events.NewBus(logger)
	mail := mailer.New(mailer.Config{Host: "localhost", Port: 1}, logger)
	handler := boardsfeat.NewHandler(db, newEngine(db, bus), nil, bus, mail, "http://localhost:3000", logger)
	return handler, testutil.NewFixtures(t, db)
}

type envelopeBody struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var b envelopeBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return b
}

func TestCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")

	req := httptest.NewRequest("POST", "/boards", strings.NewReader(`{"name":"  Roadmap  ","bgColor":"#0079bf"}`))
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	body := decodeEnvelope(t, rec)
	if err := json.Unmarshal(body.Data, &created); err != nil {
		t.Fatalf("failed to parse board: %v", err)
	}
	if created.Name != "Roadmap" {
		t.Errorf("name should be trimmed: got %q", created.Name)
	}
	if len(created.URL) != 8 {
		t.Errorf("url slug: got %q", created.URL)
	}

	// Creator must be admin and member, and carry the back-reference.
	var b struct {
		Admin   any   `bson:"admin"`
		Members []any `bson:"members"`
	}
	if err := fixtures.DB().Collection("boards").FindOne(ctx, bson.M{"url": created.URL}).Decode(&b); err != nil {
		t.Fatalf("board lookup failed: %v", err)
	}
	if len(b.Members) != 1 {
		t.Errorf("members: got %d, want 1", len(b.Members))
	}

	count, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": u.ID, "boards": bson.M{"$size": 1}})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("user should carry the board back-reference")
	}
}

func TestCreate_BlankName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")

	req := httptest.NewRequest("POST", "/boards", strings.NewReader(`{"name":"   "}`))
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCreate_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/boards", strings.NewReader(`{"name":"Roadmap"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestGetBySlug_NonMemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	outsider := fixtures.CreateUser(ctx, "eve", "Eve Outsider")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)

	req := httptest.NewRequest("GET", "/boards/"+board.URL, nil)
	req = testutil.WithChiURLParam(req, "slug", board.URL)
	req = testutil.WithUser(req, outsider)
	rec := httptest.NewRecorder()

	handler.GetBySlug(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestGetBySlug_ExpandsMembers(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)

	req := httptest.NewRequest("GET", "/boards/"+board.URL, nil)
	req = testutil.WithChiURLParam(req, "slug", board.URL)
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()

	handler.GetBySlug(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var detail struct {
		AdminUser struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"adminUser"`
		MemberUsers []struct {
			Username string `json:"username"`
		} `json:"memberUsers"`
	}
	body := decodeEnvelope(t, rec)
	if err := json.Unmarshal(body.Data, &detail); err != nil {
		t.Fatalf("failed to parse board detail: %v", err)
	}
	if detail.AdminUser.Username != "ada" {
		t.Errorf("admin user: got %q", detail.AdminUser.Username)
	}
	if detail.AdminUser.Email != "" {
		t.Error("expanded users must not leak email addresses")
	}
	if len(detail.MemberUsers) != 2 {
		t.Errorf("member users: got %d, want 2", len(detail.MemberUsers))
	}
}

func TestToggleStar_IsSelfInverse(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)

	star := func() envelopeBody {
		req := httptest.NewRequest("POST", "/boards/"+board.ID.Hex()+"/star", nil)
		req = testutil.WithChiURLParam(req, "id", board.ID.Hex())
		req = testutil.WithUser(req, u)
		rec := httptest.NewRecorder()
		handler.ToggleStar(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		return decodeEnvelope(t, rec)
	}

	first := star()
	var state struct {
		Starred bool `json:"starred"`
	}
	if err := json.Unmarshal(first.Data, &state); err != nil {
		t.Fatalf("failed to parse star state: %v", err)
	}
	if !state.Starred {
		t.Error("first toggle should star the board")
	}

	second := star()
	if err := json.Unmarshal(second.Data, &state); err != nil {
		t.Fatalf("failed to parse star state: %v", err)
	}
	if state.Starred {
		t.Error("second toggle should unstar the board")
	}

	count, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": u.ID, "starred_boards": board.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("starred_boards should be empty after the second toggle")
	}
}

func TestRemoveMember_AdminCannotBeRemoved(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)

	req := httptest.NewRequest("DELETE", "/boards/"+board.ID.Hex()+"/members/"+admin.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", board.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", admin.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.RemoveMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRemoveMember_MemberLeavesBoard(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)

	// A member may remove themselves.
	req := httptest.NewRequest("DELETE", "/boards/"+board.ID.Hex()+"/members/"+member.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", board.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()

	handler.RemoveMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("boards").CountDocuments(ctx, bson.M{"_id": board.ID, "members": member.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("member should be gone from the board's member set")
	}
}

func TestDelete_NonAdminForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)

	req := httptest.NewRequest("DELETE", "/boards/"+board.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", board.ID.Hex())
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestDelete_CascadesDescendants(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)
	list := fixtures.CreateList(ctx, board, "Doing", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", admin)
	fixtures.CreateTodo(ctx, checklist, "write tests", 1024)
	fixtures.CreateComment(ctx, card, admin, "on it")
	fixtures.CreateCollection(ctx, admin, "Work", board)

	req := httptest.NewRequest("DELETE", "/boards/"+board.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", board.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	db := fixtures.DB()
	for _, coll := range []string{"boards", "lists", "cards", "checklists", "todos", "comments"} {
		count, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
		}
		if count != 0 {
			t.Errorf("%s: expected 0 documents after cascade, got %d", coll, count)
		}
	}

	// Back-references pulled from the user and the collection.
	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"boards": board.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("user board back-references should be gone")
	}
	count, err = db.Collection("collections").CountDocuments(ctx, bson.M{"boards": board.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("collection board references should be gone")
	}
}
