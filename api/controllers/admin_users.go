package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/api/validators"
	"github.com/jithuth/roneywo/internal/admins"
	"github.com/jithuth/roneywo/internal/users"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/pagination"
)

type userDirectoryService interface {
	List(ctx context.Context, emailFilter string, page pagination.Params) (*users.ListResult, error)
}

type roleService interface {
	List(ctx context.Context) ([]admins.GrantDTO, error)
	Promote(ctx context.Context, actorID uuid.UUID, email string) (*admins.GrantDTO, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

// AdminUsers lists registered accounts for the back office.
func AdminUsers(svc userDirectoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("email")), pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminRoles lists current admin grants.
func AdminRoles(svc roleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grants, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grants)
	}
}

type promoteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminPromote grants admin privilege to an account by email.
func AdminPromote(svc roleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := identityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body promoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := svc.Promote(r.Context(), actor.UserID, body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, grant)
	}
}

// AdminRevoke removes an account's admin grant.
func AdminRevoke(svc roleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := svc.Revoke(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "revoked"})
	}
}
