// internal/domain/models/attachment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is a link or uploaded-file reference on a card. File
// storage itself is external; only the reference is kept here.
type Attachment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL           string             `bson:"url" json:"url"`
	Name          string             `bson:"name" json:"name"`
	IsWebsiteLink bool               `bson:"is_website_link" json:"isWebsiteLink"`
	Card          primitive.ObjectID `bson:"card" json:"card"`
	Board         primitive.ObjectID `bson:"board" json:"board"`
	AttachedBy    primitive.ObjectID `bson:"attached_by" json:"attachedBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
