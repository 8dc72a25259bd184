package cardpolicy_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

func TestDescendantPredicates(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	board := models.Board{
		Admin:   admin,
		Members: []primitive.ObjectID{admin, member},
	}

	tests := []struct {
		name      string
		principal primitive.ObjectID
		view      bool
		mutate    bool
	}{
		{"admin", admin, true, true},
		{"member", member, true, true},
		{"outsider", outsider, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cardpolicy.CanView(tt.principal, board); got != tt.view {
				t.Errorf("CanView: got %v, want %v", got, tt.view)
			}
			if got := cardpolicy.CanMutate(tt.principal, board); got != tt.mutate {
				t.Errorf("CanMutate: got %v, want %v", got, tt.mutate)
			}
		})
	}
}

func TestCanDeleteComment(t *testing.T) {
	admin := primitive.NewObjectID()
	author := primitive.NewObjectID()
	member := primitive.NewObjectID()

	board := models.Board{
		Admin:   admin,
		Members: []primitive.ObjectID{admin, author, member},
	}
	comment := models.Comment{Owner: author}

	if !cardpolicy.CanDeleteComment(author, comment, board) {
		t.Error("author should be able to delete their own comment")
	}
	if !cardpolicy.CanDeleteComment(admin, comment, board) {
		t.Error("board admin should be able to delete any comment")
	}
	if cardpolicy.CanDeleteComment(member, comment, board) {
		t.Error("other members cannot delete someone else's comment")
	}
}
