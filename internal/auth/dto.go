package auth

import "github.com/jithuth/roneywo/internal/users"

// Credentials carries an email/password pair.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SessionResult is returned from register and login.
type SessionResult struct {
	Token string           `json:"token"`
	User  users.ProfileDTO `json:"user"`
}
