package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	"github.com/jithuth/roneywo/pkg/pagination"
)

// Repository owns reads and writes for the orders table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new order, assigning an ID when one is not supplied.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID returns the order or nil when no row exists.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads the order under a row lock. Call inside a
// transaction. The lock only applies on postgres; sqlite serializes
// writers on its own.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order models.Order
	err := query.Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the customer's orders newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns filtered orders newest first along with the unpaginated
// total.
func (r *Repository) List(ctx context.Context, filter Filter, page pagination.Params) ([]models.Order, int64, error) {
	page = pagination.Normalize(page)

	query := filter.apply(r.db.WithContext(ctx).Model(&models.Order{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus writes the status and, when provided, the unlock code in
// one statement.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, unlockCode *string) error {
	updates := map[string]any{"status": status}
	if unlockCode != nil {
		updates["unlock_code"] = *unlockCode
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
