// internal/domain/models/collection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a user-curated set of board references. It does not own
// the boards it references: deleting a collection never touches boards,
// and deleting a board pulls its id out of every collection.
//
// Owner is the single user allowed to view, mutate, or delete the
// collection, stricter than the board's membership model.
type Collection struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name   string               `bson:"name" json:"name"`
	NameCI string               `bson:"name_ci" json:"-"`
	Owner  primitive.ObjectID   `bson:"owner" json:"owner"`
	Boards []primitive.ObjectID `bson:"boards" json:"boards"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasBoard reports whether the board is already referenced.
func (c Collection) HasBoard(boardID primitive.ObjectID) bool {
	for _, id := range c.Boards {
		if id == boardID {
			return true
		}
	}
	return false
}
