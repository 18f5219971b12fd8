package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/pagination"
)

// Repository owns reads and writes for the profiles table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a profile repository bound to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new profile, assigning an ID when one is not supplied.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.Email = normalizeEmail(profile.Email)
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID returns the profile or nil when no row exists.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindByEmail returns the profile or nil when no row exists.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// List returns profiles newest first, optionally filtered by an email
// substring, along with the unpaginated total.
func (r *Repository) List(ctx context.Context, emailFilter string, page pagination.Params) ([]models.Profile, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if needle := strings.ToLower(strings.TrimSpace(emailFilter)); needle != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+needle+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// UpdateLastSignIn stamps the most recent successful authentication.
func (r *Repository) UpdateLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
