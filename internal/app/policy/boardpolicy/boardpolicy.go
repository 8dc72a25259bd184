// Package boardpolicy holds the pure authorization predicates for
// boards. Predicates take an explicit principal and the already-fetched
// board; they never touch the database, so handlers resolve NotFound
// before any predicate runs.
//
// Rules:
//   - view: principal is the admin or a member
//   - mutate: principal is a member (membership alone suffices for
//     non-destructive mutation; the admin is a member by construction)
//   - delete: principal is the admin, exactly
package boardpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

// CanView reports whether the principal may read the board.
func CanView(principal primitive.ObjectID, b models.Board) bool {
	return principal == b.Admin || b.HasMember(principal)
}

// CanMutate reports whether the principal may perform non-destructive
// mutations (rename, create lists/cards, star, invite).
func CanMutate(principal primitive.ObjectID, b models.Board) bool {
	return b.HasMember(principal)
}

// CanDelete reports whether the principal may delete the board or
// mutate admin-only fields.
func CanDelete(principal primitive.ObjectID, b models.Board) bool {
	return principal == b.Admin
}
