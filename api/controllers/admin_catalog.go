package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/api/validators"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

type catalogAdminService interface {
	AdminList(ctx context.Context, kind enums.CatalogKind) ([]models.CatalogItem, error)
	Create(ctx context.Context, kind enums.CatalogKind, name string) (*models.CatalogItem, error)
	Rename(ctx context.Context, kind enums.CatalogKind, id uuid.UUID, name string) (*models.CatalogItem, error)
	ToggleActive(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (*models.CatalogItem, error)
	SoftDelete(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) error
}

// AdminCatalogList returns every non-deleted item of a kind.
func AdminCatalogList(svc catalogAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseCatalogKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.AdminList(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type createCatalogItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// AdminCatalogCreate adds a new item of a kind.
func AdminCatalogCreate(svc catalogAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseCatalogKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCatalogItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), kind, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateCatalogItemRequest struct {
	Name         *string `json:"name,omitempty"`
	ToggleActive bool    `json:"toggleActive,omitempty"`
}

// AdminCatalogUpdate renames an item and/or flips its visibility.
func AdminCatalogUpdate(svc catalogAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseCatalogKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseCatalogItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCatalogItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Name == nil && !body.ToggleActive {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		var item *models.CatalogItem
		if body.Name != nil {
			item, err = svc.Rename(r.Context(), kind, itemID, *body.Name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.ToggleActive {
			item, err = svc.ToggleActive(r.Context(), kind, itemID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminCatalogDelete soft-deletes an item.
func AdminCatalogDelete(svc catalogAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseCatalogKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseCatalogItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), kind, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseCatalogItemID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog item id")
	}
	return itemID, nil
}
