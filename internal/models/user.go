package models

import (
	"time"
)

// Username length bounds
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// User represents a registered account. The password hash never leaves the
// service layer in a response body.
type User struct {
	ID           string    `json:"_id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the public projection returned after a user is deleted
type UserSummary struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Summary returns the public projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Username: u.Username}
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// DeleteUserResult reports a self-delete and its cascade
type DeleteUserResult struct {
	Message         string      `json:"message"`
	User            UserSummary `json:"user"`
	PostsDeleted    int         `json:"postsDeleted"`
	CommentsDeleted int         `json:"commentsDeleted"`
}

// SignupRequest is the signup body
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the PATCH /api/users/:id body
type UpdateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
