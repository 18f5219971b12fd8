package admins

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/db/models"
)

// Repository owns reads and writes for the admin_roles table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an admin grant repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// grantRow is the join of a grant with the holder's email.
type grantRow struct {
	UserID    uuid.UUID  `gorm:"column:user_id"`
	Email     string     `gorm:"column:email"`
	GrantedBy *uuid.UUID `gorm:"column:granted_by"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

// ListWithEmails returns every grant alongside the holder's email.
func (r *Repository) ListWithEmails(ctx context.Context) ([]grantRow, error) {
	var rows []grantRow
	err := r.db.WithContext(ctx).
		Table("admin_roles").
		Select("admin_roles.user_id, profiles.email, admin_roles.granted_by, admin_roles.created_at").
		Joins("JOIN profiles ON profiles.id = admin_roles.user_id").
		Order("admin_roles.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasGrant reports whether a grant row exists for the user.
func (r *Repository) HasGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	var grant models.AdminGrant
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Insert stores a new grant.
func (r *Repository) Insert(ctx context.Context, grant *models.AdminGrant) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

// Delete removes the grant and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminGrant{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
