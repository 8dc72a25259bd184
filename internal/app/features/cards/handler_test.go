package cardsfeat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	cardsfeat "github.com/tanish435/Project-Management-Application-sub001/internal/app/features/cards"
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

func newTestHandler(t *testing.T) (*cardsfeat.Handler, *testutil.Fixtures, *events.Bus) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	bus := events.NewBus(zap.NewNop())
	handler := cardsfeat.NewHandler(db, newEngine(db, bus), bus, zap.NewNop())
	return handler, testutil.NewFixtures(t, db), bus
}

func TestCreate_AppendsAfterLastPosition(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	fixtures.CreateCard(ctx, list, "First", 1024)

	body := `{"list":"` + list.ID.Hex() + `","name":"  Second  "}`
	req := httptest.NewRequest("POST", "/cards", strings.NewReader(body))
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Name     string  `json:"name"`
			Slug     string  `json:"slug"`
			Position float64 `json:"position"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Data.Name != "Second" {
		t.Errorf("name: got %q, want %q", resp.Data.Name, "Second")
	}
	if len(resp.Data.Slug) != 8 {
		t.Errorf("slug length: got %d, want 8", len(resp.Data.Slug))
	}
	if resp.Data.Position != 2048 {
		t.Errorf("position: got %v, want 2048", resp.Data.Position)
	}
}

func TestCreate_NonMemberForbidden(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	outsider := fixtures.CreateUser(ctx, "eve", "Eve Outsider")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)

	body := `{"list":"` + list.ID.Hex() + `","name":"Sneaky"}`
	req := httptest.NewRequest("POST", "/cards", strings.NewReader(body))
	req = testutil.WithUser(req, outsider)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestGetBySlug_ExpandsMembersAndChecklists(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	fixtures.CreateChecklist(ctx, card, "Steps", admin)
	if _, err := fixtures.DB().Collection("cards").UpdateByID(ctx, card.ID,
		bson.M{"$addToSet": bson.M{"members": member.ID}}); err != nil {
		t.Fatalf("failed to assign member: %v", err)
	}

	req := httptest.NewRequest("GET", "/cards/"+card.Slug, nil)
	req = testutil.WithChiURLParam(req, "slug", card.Slug)
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.GetBySlug(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Name        string `json:"name"`
			MemberUsers []struct {
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"memberUsers"`
			Checklists []struct {
				Name string `json:"name"`
			} `json:"checklists"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Data.Name != "Ship it" {
		t.Errorf("name: got %q", resp.Data.Name)
	}
	if len(resp.Data.MemberUsers) != 1 || resp.Data.MemberUsers[0].Username != "grace" {
		t.Errorf("memberUsers: got %+v", resp.Data.MemberUsers)
	}
	if len(resp.Data.MemberUsers) == 1 && resp.Data.MemberUsers[0].Email != "" {
		t.Error("member email should not appear in the public projection")
	}
	if len(resp.Data.Checklists) != 1 || resp.Data.Checklists[0].Name != "Steps" {
		t.Errorf("checklists: got %+v", resp.Data.Checklists)
	}
}

func TestGetBySlug_NonMemberForbidden(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	outsider := fixtures.CreateUser(ctx, "eve", "Eve Outsider")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Secret", 1024)

	req := httptest.NewRequest("GET", "/cards/"+card.Slug, nil)
	req = testutil.WithChiURLParam(req, "slug", card.Slug)
	req = testutil.WithUser(req, outsider)
	rec := httptest.NewRecorder()

	handler.GetBySlug(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestUpdate_SanitizesDescription(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	body := `{"description":"hello <script>alert(1)</script>world"}`
	req := httptest.NewRequest("PATCH", "/cards/"+card.ID.Hex(), strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var stored struct {
		Description string `bson:"description"`
	}
	if err := fixtures.DB().Collection("cards").FindOne(ctx, bson.M{"_id": card.ID}).Decode(&stored); err != nil {
		t.Fatalf("card lookup failed: %v", err)
	}
	if strings.Contains(stored.Description, "<script>") {
		t.Errorf("description was stored unsanitized: %q", stored.Description)
	}
	if !strings.Contains(stored.Description, "hello") {
		t.Errorf("description text was lost: %q", stored.Description)
	}
}

func TestUpdate_DueDateSetAndClear(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PATCH", "/cards/"+card.ID.Hex(), strings.NewReader(body))
		req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
		req = testutil.WithUser(req, u)
		rec := httptest.NewRecorder()
		handler.Update(rec, req)
		return rec
	}

	if rec := patch(`{"dueDate":"2026-09-01T12:00:00Z"}`); rec.Code != http.StatusOK {
		t.Fatalf("set due date: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("cards").CountDocuments(ctx,
		bson.M{"_id": card.ID, "due_date": bson.M{"$ne": nil}})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("due date was not stored")
	}

	if rec := patch(`{"dueDate":""}`); rec.Code != http.StatusOK {
		t.Fatalf("clear due date: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err = fixtures.DB().Collection("cards").CountDocuments(ctx,
		bson.M{"_id": card.ID, "due_date": bson.M{"$ne": nil}})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Error("empty dueDate should clear the stored value")
	}

	if rec := patch(`{"dueDate":"tomorrow"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("non RFC 3339 dueDate: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUpdate_EmptyBodyRejected(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	req := httptest.NewRequest("PATCH", "/cards/"+card.ID.Hex(), strings.NewReader(`{}`))
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestReposition_MovesAcrossListsAndPublishes(t *testing.T) {
	handler, fixtures, bus := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	backlog := fixtures.CreateList(ctx, board, "Backlog", 1024)
	doing := fixtures.CreateList(ctx, board, "Doing", 2048)
	card := fixtures.CreateCard(ctx, backlog, "Ship it", 1024)

	ch, cancelSub := bus.Subscribe(board.URL)
	defer cancelSub()

	req := httptest.NewRequest("PATCH",
		"/cards/"+card.ID.Hex()+"/position?pos=512&list="+doing.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Reposition(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var stored struct {
		List     primitive.ObjectID `bson:"list"`
		Position float64            `bson:"position"`
	}
	if err := fixtures.DB().Collection("cards").FindOne(ctx, bson.M{"_id": card.ID}).Decode(&stored); err != nil {
		t.Fatalf("card lookup failed: %v", err)
	}
	if stored.List != doing.ID {
		t.Errorf("list: got %v, want %v", stored.List, doing.ID)
	}
	if stored.Position != 512 {
		t.Errorf("position: got %v, want 512", stored.Position)
	}

	select {
	case ev := <-ch:
		if ev.Type != events.TypeCardMoved {
			t.Errorf("event type: got %q", ev.Type)
		}
		moved, ok := ev.Payload.(events.CardMoved)
		if !ok {
			t.Fatalf("payload type: got %T", ev.Payload)
		}
		if moved.ListID != doing.ID.Hex() || moved.Position != 512 {
			t.Errorf("payload: got %+v", moved)
		}
	default:
		t.Error("expected a card.moved event")
	}
}

func TestReposition_ListOnAnotherBoardRejected(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	other := fixtures.CreateBoard(ctx, "Elsewhere", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	foreign := fixtures.CreateList(ctx, other, "Foreign", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	req := httptest.NewRequest("PATCH",
		"/cards/"+card.ID.Hex()+"/position?pos=512&list="+foreign.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Reposition(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAddMember_RequiresBoardMembership(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	outsider := fixtures.CreateUser(ctx, "eve", "Eve Outsider")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	body := `{"userId":"` + outsider.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/cards/"+card.ID.Hex()+"/members", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, admin)
	rec := httptest.NewRecorder()

	handler.AddMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAddMember_AlreadyOnCardAccepted(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	add := func() *httptest.ResponseRecorder {
		body := `{"userId":"` + member.ID.Hex() + `"}`
		req := httptest.NewRequest("POST", "/cards/"+card.ID.Hex()+"/members", strings.NewReader(body))
		req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
		req = testutil.WithUser(req, admin)
		rec := httptest.NewRecorder()
		handler.AddMember(rec, req)
		return rec
	}

	first := add()
	if first.Code != http.StatusOK {
		t.Fatalf("first add: expected status %d, got %d: %s", http.StatusOK, first.Code, first.Body.String())
	}

	var resp struct {
		Data []struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Username != "grace" {
		t.Errorf("assignees: got %+v, want just grace", resp.Data)
	}

	if rec := add(); rec.Code != http.StatusAccepted {
		t.Errorf("second add: expected status %d, got %d", http.StatusAccepted, rec.Code)
	}

	count, err := fixtures.DB().Collection("cards").CountDocuments(ctx,
		bson.M{"_id": card.ID, "members": member.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("member should be on the card exactly once")
	}
}

func TestRemoveMember_Idempotent(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)

	remove := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/cards/"+card.ID.Hex()+"/members/"+member.ID.Hex(), nil)
		req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
		req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())
		req = testutil.WithUser(req, admin)
		rec := httptest.NewRecorder()
		handler.RemoveMember(rec, req)
		return rec
	}

	if rec := remove(); rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if rec := remove(); rec.Code != http.StatusOK {
		t.Errorf("repeat remove: expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAssignedToMe_OnlyMemberCards(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	member := fixtures.CreateUser(ctx, "grace", "Grace Hopper")
	board := fixtures.CreateBoard(ctx, "Roadmap", admin, member)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	mine := fixtures.CreateCard(ctx, list, "Mine", 1024)
	fixtures.CreateCard(ctx, list, "Not mine", 2048)
	if _, err := fixtures.DB().Collection("cards").UpdateByID(ctx, mine.ID,
		bson.M{"$addToSet": bson.M{"members": member.ID}}); err != nil {
		t.Fatalf("failed to assign member: %v", err)
	}

	req := httptest.NewRequest("GET", "/cards/me", nil)
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()

	handler.AssignedToMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Mine" {
		t.Errorf("assigned cards: got %+v", resp.Data)
	}
}

func TestDelete_RemovesDescendants(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "ada", "Ada Lovelace")
	board := fixtures.CreateBoard(ctx, "Roadmap", u)
	list := fixtures.CreateList(ctx, board, "Backlog", 1024)
	card := fixtures.CreateCard(ctx, list, "Ship it", 1024)
	checklist := fixtures.CreateChecklist(ctx, card, "Steps", u)
	fixtures.CreateTodo(ctx, checklist, "write tests", 1024)
	fixtures.CreateComment(ctx, card, u, "on it")
	fixtures.CreateAttachment(ctx, card, u, "docs", "https://example.com/docs")
	kept := fixtures.CreateCard(ctx, list, "Untouched", 2048)

	req := httptest.NewRequest("DELETE", "/cards/"+card.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", card.ID.Hex())
	req = testutil.WithUser(req, u)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	db := fixtures.DB()
	for _, tc := range []struct {
		coll string
		want int64
	}{
		{"cards", 1},
		{"checklists", 0},
		{"todos", 0},
		{"comments", 0},
		{"attachments", 0},
	} {
		count, err := db.Collection(tc.coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", tc.coll, err)
		}
		if count != tc.want {
			t.Errorf("%s: got %d documents, want %d", tc.coll, count, tc.want)
		}
	}

	count, err := db.Collection("cards").CountDocuments(ctx, bson.M{"_id": kept.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Error("sibling card should remain")
	}
}
