package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors an authenticated account. Rows are created lazily on
// first sign-in and never deleted by the application.
type Profile struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Provider     string     `gorm:"column:provider;not null;default:'email'" json:"provider"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastSignInAt *time.Time `gorm:"column:last_sign_in_at" json:"lastSignInAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
