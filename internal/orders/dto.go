package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	"github.com/jithuth/roneywo/pkg/types"
)

// CreateInput carries everything needed to open a new unlock order.
type CreateInput struct {
	UserID          uuid.UUID
	UserEmail       string
	Device          types.DeviceInfo
	PaymentProofURL string
	Amount          decimal.Decimal
	Currency        string
}

// TransitionInput carries a requested status change. Actor identity is
// checked against the admin gate before anything is written.
type TransitionInput struct {
	OrderID    uuid.UUID
	Target     enums.OrderStatus
	UnlockCode string
	ActorID    uuid.UUID
	ActorEmail string
}

// ListResult bundles a page of orders with the unpaginated total.
type ListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}
