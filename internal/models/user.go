package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns "Firstname Lastname", falling back to the username.
func (u User) DisplayName() string {
	switch {
	case u.Firstname != "" && u.Lastname != "":
		return u.Firstname + " " + u.Lastname
	case u.Firstname != "":
		return u.Firstname
	default:
		return u.Username
	}
}
