package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/responses"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

// adminChecker answers whether an identity holds admin privilege.
type adminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID, email string) (bool, error)
}

// AdminOnly rejects requests whose identity fails the admin gate. The
// gate is asked on every request so revocations apply immediately.
func AdminOnly(gate adminChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			allowed, err := gate.IsAdmin(ctx, userID, UserEmailFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking admin access"))
				return
			}
			if !allowed {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
