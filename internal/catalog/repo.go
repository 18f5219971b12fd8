package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
)

// Repository serves both reference tables through one model; the kind
// selects the backing table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) table(ctx context.Context, kind enums.CatalogKind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.TableName())
}

// ListActive returns visible items for the public intake form.
func (r *Repository) ListActive(ctx context.Context, kind enums.CatalogKind) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.table(ctx, kind).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every non-deleted item for the admin console.
func (r *Repository) ListAll(ctx context.Context, kind enums.CatalogKind) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.table(ctx, kind).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns the item or nil when no live row exists.
func (r *Repository) FindByID(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := r.table(ctx, kind).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Insert stores a new item, assigning an ID when one is not supplied.
func (r *Repository) Insert(ctx context.Context, kind enums.CatalogKind, item *models.CatalogItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.table(ctx, kind).Create(item).Error
}

// UpdateName renames the item and reports whether a live row changed.
func (r *Repository) UpdateName(ctx context.Context, kind enums.CatalogKind, id uuid.UUID, name string) (bool, error) {
	result := r.table(ctx, kind).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("name", name)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateActive sets the visibility flag and reports whether a live row changed.
func (r *Repository) UpdateActive(ctx context.Context, kind enums.CatalogKind, id uuid.UUID, active bool) (bool, error) {
	result := r.table(ctx, kind).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_active", active)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkDeleted soft-deletes the item. Already-deleted rows are left
// untouched and reported as existing so the operation stays idempotent.
func (r *Repository) MarkDeleted(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (bool, error) {
	result := r.table(ctx, kind).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
