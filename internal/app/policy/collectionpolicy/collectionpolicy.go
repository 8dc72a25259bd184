// Package collectionpolicy holds the authorization predicates for
// collections. A collection has a single owner and no member set: view,
// mutate, and delete all require the principal to be the owner.
package collectionpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

// CanView reports whether the principal may read the collection.
func CanView(principal primitive.ObjectID, c models.Collection) bool {
	return principal == c.Owner
}

// CanMutate reports whether the principal may rename the collection or
// add/remove board references.
func CanMutate(principal primitive.ObjectID, c models.Collection) bool {
	return principal == c.Owner
}

// CanDelete reports whether the principal may delete the collection.
func CanDelete(principal primitive.ObjectID, c models.Collection) bool {
	return principal == c.Owner
}
