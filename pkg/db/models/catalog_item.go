package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogItem is a reference value (country or brand) offered in the
// intake dropdowns. Deletion is a soft flag; deactivation hides the item
// from the public form without losing it.
type CatalogItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
