// internal/domain/models/board.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Board is the top-level collaborative container.
//
// Admin is the single owning user; Members is the authoritative set used
// for access checks. The admin is inserted into Members at creation so
// membership checks never need to special-case the admin.
//
// URL is a short unique public slug; it doubles as the realtime
// collaboration room identifier.
type Board struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	NameCI  string               `bson:"name_ci" json:"-"`
	BgColor string               `bson:"bg_color,omitempty" json:"bgColor,omitempty"`
	URL     string               `bson:"url" json:"url"`
	Admin   primitive.ObjectID   `bson:"admin" json:"admin"`
	Members []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether the user is in the board's member set.
func (b Board) HasMember(userID primitive.ObjectID) bool {
	for _, id := range b.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// BoardWithMembers is the read projection of a board with its admin and
// member references expanded to public user documents.
type BoardWithMembers struct {
	Board       `bson:",inline"`
	AdminUser   PublicUser   `bson:"admin_user" json:"adminUser"`
	MemberUsers []PublicUser `bson:"member_users" json:"memberUsers"`
	IsStarred   bool         `bson:"-" json:"isStarred"`
}
