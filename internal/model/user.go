package model

import "time"

// User represents an account stored in the `users` collection/table.  The
// JSON tags follow the wire format the web client expects (`_id`,
// `isAdmin`); the password hash never leaves the server.
//
// Fields:
//
//	ID           – unique identifier (UUID string).
//	Name         – display name.
//	Email        – unique, case-sensitive login key.
//	Phone        – contact number, free text.
//	PasswordHash – bcrypt hash of the password.
//	IsAdmin      – administrator flag, false for self-registered users.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type User struct {
	ID           string    `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"password,omitempty"`
	IsAdmin      bool      `json:"isAdmin" bson:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the subset of a User that is safe to return to clients.
type PublicUser struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	IsAdmin bool   `json:"isAdmin"`
}

// Public strips everything but the public profile fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, IsAdmin: u.IsAdmin}
}

// UserSummary is embedded into appointment listings for administrators.
type UserSummary struct {
	ID    string `json:"_id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}
