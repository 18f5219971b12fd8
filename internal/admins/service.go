package admins

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/internal/users"
	"github.com/jithuth/roneywo/pkg/db"
	"github.com/jithuth/roneywo/pkg/db/models"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

// Service is the single authorization gate for the back office. Every
// privileged operation asks it per request; nothing caches the answer.
type Service interface {
	IsAdmin(ctx context.Context, userID uuid.UUID, email string) (bool, error)
	List(ctx context.Context) ([]GrantDTO, error)
	Promote(ctx context.Context, actorID uuid.UUID, email string) (*GrantDTO, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo           *Repository
	Users          *users.Repository
	BootstrapEmail string
	Logger         *logger.Logger
}

type service struct {
	repo           *Repository
	users          *users.Repository
	bootstrapEmail string
	logg           *logger.Logger
}

// NewService validates dependencies and builds the admin gate.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admins repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if strings.TrimSpace(params.BootstrapEmail) == "" {
		return nil, fmt.Errorf("bootstrap email is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:           params.Repo,
		users:          params.Users,
		bootstrapEmail: strings.ToLower(strings.TrimSpace(params.BootstrapEmail)),
		logg:           params.Logger,
	}, nil
}

func (s *service) IsAdmin(ctx context.Context, userID uuid.UUID, email string) (bool, error) {
	if s.isBootstrap(email) {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}
	granted, err := s.repo.HasGrant(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking admin grant")
	}
	return granted, nil
}

func (s *service) List(ctx context.Context) ([]GrantDTO, error) {
	rows, err := s.repo.ListWithEmails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing admin grants")
	}
	grants := make([]GrantDTO, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, GrantDTO{
			UserID:    row.UserID,
			Email:     row.Email,
			GrantedBy: row.GrantedBy,
			CreatedAt: row.CreatedAt,
		})
	}
	return grants, nil
}

func (s *service) Promote(ctx context.Context, actorID uuid.UUID, email string) (*GrantDTO, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if s.isBootstrap(email) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "the bootstrap admin cannot be modified")
	}

	profile, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account exists with that email")
	}

	grant := &models.AdminGrant{UserID: profile.ID}
	if actorID != uuid.Nil {
		grant.GrantedBy = &actorID
	}
	if err := s.repo.Insert(ctx, grant); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account is already an admin")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting admin grant")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"target_user_id": profile.ID.String(),
		"granted_by":     actorID.String(),
	}), "admin grant issued")

	return &GrantDTO{
		UserID:    grant.UserID,
		Email:     profile.Email,
		GrantedBy: grant.GrantedBy,
		CreatedAt: grant.CreatedAt,
	}, nil
}

func (s *service) Revoke(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up profile")
	}
	if profile != nil && s.isBootstrap(profile.Email) {
		return pkgerrors.New(pkgerrors.CodeConflict, "the bootstrap admin cannot be modified")
	}

	removed, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting admin grant")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no admin grant for that account")
	}

	s.logg.Info(s.logg.WithField(ctx, "target_user_id", userID.String()), "admin grant revoked")
	return nil
}

func (s *service) isBootstrap(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), s.bootstrapEmail)
}
