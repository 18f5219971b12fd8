package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/pkg/db/models"
)

// ProfileDTO is the public shape of an account row.
type ProfileDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Provider     string     `json:"provider"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ListResult bundles a page of profiles with the unpaginated total.
type ListResult struct {
	Users []ProfileDTO `json:"users"`
	Total int64        `json:"total"`
}

func toDTO(profile *models.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID:           profile.ID,
		Email:        profile.Email,
		Provider:     profile.Provider,
		LastSignInAt: profile.LastSignInAt,
		CreatedAt:    profile.CreatedAt,
	}
}

func newProfileRow(id uuid.UUID, email string) *models.Profile {
	return &models.Profile{
		ID:       id,
		Email:    email,
		Provider: "email",
	}
}
