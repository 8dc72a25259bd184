// internal/domain/models/checklist.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checklist groups todos under a card. Board is denormalized for
// transitive authorization and cascade sweeps, same as Card.
type Checklist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Card      primitive.ObjectID `bson:"card" json:"card"`
	Board     primitive.ObjectID `bson:"board" json:"board"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ChecklistWithTodos joins a checklist with its todos in position order.
type ChecklistWithTodos struct {
	Checklist `bson:",inline"`
	Todos     []Todo `bson:"todos" json:"todos"`
}
