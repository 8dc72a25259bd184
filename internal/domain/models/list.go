// internal/domain/models/list.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List is an ordered column of cards on a board.
//
// Position is a caller-managed ordering key: repositioning sets it
// directly, with no re-normalization of siblings and no uniqueness
// enforcement.
type List struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Position float64            `bson:"position" json:"position"`
	Board    primitive.ObjectID `bson:"board" json:"board"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ListWithCards is the read projection of a list with its cards joined
// in position order.
type ListWithCards struct {
	List  `bson:",inline"`
	Cards []Card `bson:"cards" json:"cards"`
}
