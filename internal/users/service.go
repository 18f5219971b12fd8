package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/pkg/db"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/pagination"
)

// Service exposes profile lookups to the rest of the application.
type Service interface {
	// Ensure returns the profile for an authenticated identity, creating
	// the row when provisioning previously failed.
	Ensure(ctx context.Context, id uuid.UUID, email string) (*ProfileDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	List(ctx context.Context, emailFilter string, page pagination.Params) (*ListResult, error)
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

// NewService validates dependencies and builds the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Ensure(ctx context.Context, id uuid.UUID, email string) (*ProfileDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up profile")
	}
	if profile != nil {
		return toDTO(profile), nil
	}

	// Self-heal: the identity is valid but the profile row is missing.
	// Password sign-in stays disabled on the recreated row until reset.
	created := newProfileRow(id, email)
	if err := s.repo.Create(ctx, created); err != nil {
		if db.IsUniqueViolation(err, "") {
			existing, findErr := s.repo.FindByEmail(ctx, email)
			if findErr == nil && existing != nil {
				return toDTO(existing), nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recreating profile")
	}
	s.logg.Warn(s.logg.WithUserID(ctx, id.String()), "recreated missing profile row")
	return toDTO(created), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return toDTO(profile), nil
}

func (s *service) List(ctx context.Context, emailFilter string, page pagination.Params) (*ListResult, error) {
	profiles, total, err := s.repo.List(ctx, emailFilter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing profiles")
	}

	result := &ListResult{Users: make([]ProfileDTO, 0, len(profiles)), Total: total}
	for i := range profiles {
		result.Users = append(result.Users, *toDTO(&profiles[i]))
	}
	return result, nil
}
