package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/middleware"
	"github.com/jithuth/roneywo/internal/wizard"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
)

// identityFromContext reads the authenticated identity seeded by the
// auth middleware.
func identityFromContext(ctx context.Context) (wizard.Identity, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return wizard.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return wizard.Identity{
		UserID: userID,
		Email:  middleware.UserEmailFromContext(ctx),
	}, nil
}
