package admins

import (
	"time"

	"github.com/google/uuid"
)

// GrantDTO is an admin grant joined with the holder's email.
type GrantDTO struct {
	UserID    uuid.UUID  `json:"userId"`
	Email     string     `json:"email"`
	GrantedBy *uuid.UUID `json:"grantedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
