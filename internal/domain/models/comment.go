// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a user-authored note on a card. Deletion is allowed for the
// comment's owner and for the board admin.
type Comment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content string             `bson:"content" json:"content"`
	Card    primitive.ObjectID `bson:"card" json:"card"`
	Board   primitive.ObjectID `bson:"board" json:"board"`
	Owner   primitive.ObjectID `bson:"owner" json:"owner"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CommentWithOwner expands the owner reference for read responses.
type CommentWithOwner struct {
	Comment   `bson:",inline"`
	OwnerUser PublicUser `bson:"owner_user" json:"ownerUser"`
}
