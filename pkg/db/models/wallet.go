package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a payment destination shown on the payment step. Rows are
// reference data managed out of band; reads fall back to built-in
// defaults when the table is empty or unreachable.
type Wallet struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Currency  string          `gorm:"column:currency;not null;uniqueIndex" json:"currency"`
	Address   string          `gorm:"column:address;not null" json:"address"`
	Network   string          `gorm:"column:network;not null" json:"network"`
	QRCodeURL string          `gorm:"column:qr_code_url" json:"qrCodeUrl"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(18,8);not null" json:"price"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
