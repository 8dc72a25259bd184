package todosfeat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	todosfeat "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/todos"
	"github.com/tanish435/Project-Management-Application-sub001/internal/testutil"
)

func newTestHandler(t *testing.T) (*todosfeat.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := todosfeat.NewHandler(db, zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func TestCreate_AppendsAfterLastPosition(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	fixtures.CreateTodo(ctx, checklist, "first", 1024)

	body := `{"checklist":"` + checklist.ID.Hex() + `","content":"  second  "}`
	req := httptest.NewRequest("POST", "/todos", strings.NewReader(body))
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Content  string  `json:"content"`
			Position float64 `json:"position"`
			Complete bool    `json:"complete"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Data.Content != "second" {
		t.Errorf("content: got %q, want %q", resp.Data.Content, "second")
	}
	if resp.Data.Position != 2048 {
		t.Errorf("position: got %v, want 2048", resp.Data.Position)
	}
	if resp.Data.Complete {
		t.Error("a new todo should start incomplete")
	}
}

func TestCreate_BlankContentRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)

	body := `{"checklist":"` + checklist.ID.Hex() + `","content":"   "}`
	req := httptest.NewRequest("POST", "/todos", strings.NewReader(body))
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUpdate_ToggleComplete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 1024)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PATCH", "/todos/"+todo.ID.Hex(), strings.NewReader(body))
		req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
		req = testutil.WithUser(req, u)
		rec := httptest.NewRecorder()
		handler.Update(rec, req)
		return rec
	}

	rec := patch(`{"complete":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Complete bool `json:"complete"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Data.Complete {
		t.Error("todo should be complete")
	}

	if rec := patch(`{"complete":false}`); rec.Code != http.StatusOK {
		t.Fatalf("uncomplete: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	count, err := fixtures.DB().Collection("todos").CountDocuments(ctx,
		bson.M{"_id": todo.ID, "complete": false})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("todo should be incomplete again")
	}
}

func TestUpdate_EmptyBodyRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 1024)

	req := httptest.NewRequest("PATCH", "/todos/"+todo.ID.Hex(), strings.NewReader(`{}`))
	req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestReposition_SetsOrderingKey(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 2048)

	req := httptest.NewRequest("PATCH", "/todos/"+todo.ID.Hex()+"/position?pos=512", nil)
	req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Reposition(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var stored struct {
		Position float64 `bson:"position"`
	}
	if err := fixtures.DB().Collection("todos").FindOne(ctx, bson.M{"_id": todo.ID}).Decode(&stored); err != nil {
		t.Fatalf("todo lookup failed: %v", err)
	}
	if stored.Position != 512 {
		t.Errorf("position: got %v, want 512", stored.Position)
	}
}

func TestAssign_RequiresBoardMembership(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	outsider := fixtures.CreateUser(ctx, "eve", "Eve Outsider")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", admin)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 1024)

	body := `{"userId":"` + outsider.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/todos/"+todo.ID.Hex()+"/assign", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.Assign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAssignAndUnassign(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", admin)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 1024)

	body := `{"userId":"` + member.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/todos/"+todo.ID.Hex()+"/assign", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.Assign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("assign: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("todos").CountDocuments(ctx,
		bson.M{"_id": todo.ID, "assigned_to": member.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("assignment was not stored")
	}

	unassign := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/todos/"+todo.ID.Hex()+"/assign/"+member.ID.Hex(), nil)
		req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
		req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())
		req = testutil.WithUser(req, admin)
		rec := httptest.NewRecorder()
		handler.Unassign(rec, req)
		return rec
	}

	if rec := unassign(); rec.Code != http.StatusOK {
		t.Fatalf("unassign: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if rec := unassign(); rec.Code != http.StatusOK {
		t.Errorf("repeat unassign: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	count, err = fixtures.DB().Collection("todos").CountDocuments(ctx,
		bson.M{"_id": todo.ID, "assigned_to": member.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("assignment should be gone")
	}
}

func TestDelete_RemovesTodo(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	todo := fixtures.CreateTodo(ctx, checklist, "write tests", 1024)
	kept := fixtures.CreateTodo(ctx, checklist, "survives", 2048)

	req := httptest.NewRequest("DELETE", "/todos/"+todo.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", todo.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("todos").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("todos: got %d documents, want 1", count)
	}
	count, err = fixtures.DB().Collection("todos").CountDocuments(ctx, bson.M{"_id": kept.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("sibling todo should remain")
	}
}
