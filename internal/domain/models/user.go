// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
//
// NOTE:
//   - Boards holds board *membership* (not ownership); a board the user
//     administers also appears here because the admin is added to the
//     board's members at creation.
//   - StarredBoards and Collections are back-references kept consistent
//     by the cascade engine when boards/collections are deleted.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email,omitempty"`
	FullName     string             `bson:"full_name" json:"fullName"`
	Initials     string             `bson:"initials" json:"initials"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsVerified   bool               `bson:"is_verified" json:"isVerified"`

	Boards        []primitive.ObjectID `bson:"boards" json:"boards"`
	StarredBoards []primitive.ObjectID `bson:"starred_boards" json:"starredBoards"`
	Collections   []primitive.ObjectID `bson:"collections" json:"collections"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the subset of User exposed when a user appears inside
// someone else's response (board members, comment owners, assignees).
// It never carries the email, credential hash, or verification fields.
type PublicUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"full_name" json:"fullName"`
	Initials string             `bson:"initials" json:"initials"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Public projects the user to its shareable subset.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Initials: u.Initials,
		Avatar:   u.Avatar,
	}
}

// HasStarred reports whether the board is in the user's starred set.
func (u User) HasStarred(boardID primitive.ObjectID) bool {
	for _, id := range u.StarredBoards {
		if id == boardID {
			return true
		}
	}
	return false
}
