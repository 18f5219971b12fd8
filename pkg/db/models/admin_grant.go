package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminGrant marks an account as holding elevated privilege.
type AdminGrant struct {
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"userId"`
	GrantedBy *uuid.UUID `gorm:"column:granted_by;type:uuid" json:"grantedBy,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName keeps the historical table name used by the hosted backend.
func (AdminGrant) TableName() string {
	return "admin_roles"
}
