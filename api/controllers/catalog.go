package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/internal/wallets"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

type publicCatalogService interface {
	PublicNames(ctx context.Context, kind enums.CatalogKind) []string
}

type walletReadService interface {
	List(ctx context.Context) []wallets.WalletDTO
}

// PublicCatalog serves the active names for the intake dropdowns.
func PublicCatalog(svc publicCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseCatalogKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.PublicNames(r.Context(), kind))
	}
}

// ListWallets serves the payment destinations.
func ListWallets(svc walletReadService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

func parseCatalogKind(r *http.Request) (enums.CatalogKind, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "kind"))
	kind, err := enums.ParseCatalogKind(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog kind")
	}
	return kind, nil
}
