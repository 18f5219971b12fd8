package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jithuth/roneywo/internal/users"
	pkgauth "github.com/jithuth/roneywo/pkg/auth"
	"github.com/jithuth/roneywo/pkg/auth/session"
	"github.com/jithuth/roneywo/pkg/config"
	"github.com/jithuth/roneywo/pkg/db"
	"github.com/jithuth/roneywo/pkg/db/models"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/security"
)

const providerEmail = "email"

// sessionRegistry is the session surface the service depends on.
type sessionRegistry interface {
	Track(ctx context.Context, accessID string, userID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service owns account registration and session issuance.
type Service interface {
	Register(ctx context.Context, creds Credentials) (*SessionResult, error)
	Login(ctx context.Context, creds Credentials) (*SessionResult, error)
	Logout(ctx context.Context, accessID string) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Users    *users.Repository
	Sessions sessionRegistry
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

type service struct {
	users    *users.Repository
	sessions sessionRegistry
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService validates dependencies and builds the identity service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt config is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		jwt:      params.JWT,
		password: params.Password,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, creds Credentials) (*SessionResult, error) {
	hash, err := security.HashPassword(creds.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	profile := &models.Profile{
		Email:        creds.Email,
		Provider:     providerEmail,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, profile); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating profile")
	}

	s.logg.Info(s.logg.WithUserID(ctx, profile.ID.String()), "account registered")
	return s.openSession(ctx, profile)
}

func (s *service) Login(ctx context.Context, creds Credentials) (*SessionResult, error) {
	profile, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up profile")
	}
	if profile == nil || strings.TrimSpace(profile.PasswordHash) == "" {
		return nil, invalidCredentials()
	}

	match, err := security.VerifyPassword(creds.Password, profile.PasswordHash)
	if err != nil || !match {
		return nil, invalidCredentials()
	}

	now := s.now()
	if err := s.users.UpdateLastSignIn(ctx, profile.ID, now); err != nil {
		// Non-fatal: the stamp is informational.
		s.logg.Warn(s.logg.WithUserID(ctx, profile.ID.String()), "failed to stamp last sign-in")
	} else {
		profile.LastSignInAt = &now
	}

	s.logg.Info(s.logg.WithUserID(ctx, profile.ID.String()), "login succeeded")
	return s.openSession(ctx, profile)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, profile *models.Profile) (*SessionResult, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		Provider: profile.Provider,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	if err := s.sessions.Track(ctx, accessID, profile.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tracking session")
	}

	return &SessionResult{
		Token: token,
		User: users.ProfileDTO{
			ID:           profile.ID,
			Email:        profile.Email,
			Provider:     profile.Provider,
			LastSignInAt: profile.LastSignInAt,
			CreatedAt:    profile.CreatedAt,
		},
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
