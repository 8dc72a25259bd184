// Package cardpolicy holds the authorization predicates for every
// board descendant: lists, cards, checklists, todos, comments, and
// attachments. Their authorization is transitive: resolve the owning
// board, then require board membership. Handlers fetch the board (via
// the denormalized board reference every descendant carries) and pass
// it in; a missing board is a NotFound before any predicate runs.
package cardpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

// CanView reports whether the principal may read a descendant of the
// board.
func CanView(principal primitive.ObjectID, b models.Board) bool {
	return principal == b.Admin || b.HasMember(principal)
}

// CanMutate reports whether the principal may create, edit, move, or
// delete descendants of the board.
func CanMutate(principal primitive.ObjectID, b models.Board) bool {
	return b.HasMember(principal)
}

// CanDeleteComment is the one descendant rule with an extra scope: the
// comment's author may remove their own comment, and the board admin
// may remove any comment.
func CanDeleteComment(principal primitive.ObjectID, c models.Comment, b models.Board) bool {
	return principal == c.Owner || principal == b.Admin
}
