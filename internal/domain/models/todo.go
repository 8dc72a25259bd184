// internal/domain/models/todo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Todo is a single checklist item.
type Todo struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content    string               `bson:"content" json:"content"`
	Complete   bool                 `bson:"complete" json:"complete"`
	Position   float64              `bson:"position" json:"position"`
	Checklist  primitive.ObjectID   `bson:"checklist" json:"checklist"`
	Board      primitive.ObjectID   `bson:"board" json:"board"`
	AssignedTo []primitive.ObjectID `bson:"assigned_to" json:"assignedTo"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
