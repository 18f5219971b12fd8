package wallets

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

// WalletDTO is a payment destination shown on the payment step.
type WalletDTO struct {
	Currency  string          `json:"currency"`
	Address   string          `json:"address"`
	Network   string          `json:"network"`
	QRCodeURL string          `json:"qrCodeUrl"`
	Price     decimal.Decimal `json:"price"`
}

// The payment step must always offer at least one destination, so reads
// degrade to this built-in pair instead of failing.
var fallbackWallets = []WalletDTO{
	{
		Currency:  "USDT (TRC20)",
		Address:   "T9yG1234567890abcdef1234567890TrC2",
		Network:   "Tron",
		QRCodeURL: "https://picsum.photos/200/200?grayscale",
		Price:     decimal.RequireFromString("25.00"),
	},
	{
		Currency:  "Bitcoin (BTC)",
		Address:   "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		Network:   "Bitcoin",
		QRCodeURL: "https://picsum.photos/200/200?grayscale&blur=1",
		Price:     decimal.RequireFromString("0.00085"),
	},
}

// FallbackWallets returns a copy of the built-in destinations.
func FallbackWallets() []WalletDTO {
	wallets := make([]WalletDTO, len(fallbackWallets))
	copy(wallets, fallbackWallets)
	return wallets
}

// Service exposes payment wallet reads.
type Service interface {
	List(ctx context.Context) []WalletDTO
	FindByCurrency(ctx context.Context, currency string) (*WalletDTO, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService validates dependencies and builds the wallet service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wallets repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context) []WalletDTO {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logg.Warn(ctx, "wallet read failed, serving defaults")
		return FallbackWallets()
	}
	if len(rows) == 0 {
		return FallbackWallets()
	}

	wallets := make([]WalletDTO, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, WalletDTO{
			Currency:  row.Currency,
			Address:   row.Address,
			Network:   row.Network,
			QRCodeURL: row.QRCodeURL,
			Price:     row.Price,
		})
	}
	return wallets
}

func (s *service) FindByCurrency(ctx context.Context, currency string) (*WalletDTO, error) {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	for _, wallet := range s.List(ctx) {
		if strings.EqualFold(wallet.Currency, currency) {
			found := wallet
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no wallet for that currency")
}
