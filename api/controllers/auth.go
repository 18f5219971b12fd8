package controllers

import (
	"context"
	"net/http"

	"github.com/jithuth/roneywo/api/middleware"
	"github.com/jithuth/roneywo/api/responses"
	"github.com/jithuth/roneywo/api/validators"
	internalauth "github.com/jithuth/roneywo/internal/auth"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

type identityService interface {
	Register(ctx context.Context, creds internalauth.Credentials) (*internalauth.SessionResult, error)
	Login(ctx context.Context, creds internalauth.Credentials) (*internalauth.SessionResult, error)
	Logout(ctx context.Context, accessID string) error
}

// Register creates an account and opens a session.
func Register(svc identityService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds internalauth.Credentials
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Login verifies credentials and opens a session.
func Login(svc identityService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds internalauth.Credentials
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Logout revokes the current session.
func Logout(svc identityService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed_out"})
	}
}
