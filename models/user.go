package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can author blogs, like and comment.
// Collection: users
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	FullName  string             `bson:"full_name" json:"full_name"`
	Avatar    string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Password  string             `bson:"password" json:"-"`
}

// UserSummary is the author projection joined into blog query results.
// It never carries credentials.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"full_name" json:"full_name"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}
