// internal/domain/models/card.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Card is a single task on a list.
//
// Board is denormalized from the owning list so that transitive
// authorization (card -> board membership) is a single fetch, and so the
// cascade engine can sweep a whole board with one filter. The counters
// are denormalized tallies maintained by the comment/checklist/attachment
// operations.
type Card struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Slug        string               `bson:"slug" json:"slug"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	List        primitive.ObjectID   `bson:"list" json:"list"`
	Board       primitive.ObjectID   `bson:"board" json:"board"`
	Position    float64              `bson:"position" json:"position"`
	DueDate     *time.Time           `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`

	CommentCount    int `bson:"comment_count" json:"commentCount"`
	ChecklistCount  int `bson:"checklist_count" json:"checklistCount"`
	AttachmentCount int `bson:"attachment_count" json:"attachmentCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CardDetail is the read projection of a card with its members expanded
// and its checklists joined.
type CardDetail struct {
	Card        `bson:",inline"`
	MemberUsers []PublicUser `bson:"member_users" json:"memberUsers"`
	Checklists  []Checklist  `bson:"checklists" json:"checklists"`
}
