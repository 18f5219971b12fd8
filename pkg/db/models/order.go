package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jithuth/roneywo/pkg/enums"
	"github.com/jithuth/roneywo/pkg/types"
)

// Order is one unlock request. Everything except Status and UnlockCode
// is immutable after creation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	UserEmail       string            `gorm:"column:user_email;not null" json:"userEmail"`
	Device          types.DeviceInfo  `gorm:"embedded;embeddedPrefix:device_" json:"device"`
	PaymentProofURL string            `gorm:"column:payment_proof_url;not null" json:"paymentProofUrl"`
	Amount          decimal.Decimal   `gorm:"column:amount;type:numeric(18,8);not null" json:"amount"`
	Currency        string            `gorm:"column:currency;not null" json:"currency"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	UnlockCode      *string           `gorm:"column:unlock_code" json:"unlockCode,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
