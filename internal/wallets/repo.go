package wallets

import (
	"context"

	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/db/models"
)

// Repository owns reads for the wallets table. Rows are managed out of
// band, so there is no write surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all configured payment wallets.
func (r *Repository) List(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
