package admins

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/internal/users"
	"github.com/jithuth/roneywo/pkg/db/models"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

const bootstrapEmail = "admin@unlockglobal.com"

func setupAdminsTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  provider TEXT NOT NULL DEFAULT 'email',
  password_hash TEXT NOT NULL DEFAULT '',
  last_sign_in_at DATETIME,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS admin_roles (
  user_id TEXT PRIMARY KEY,
  granted_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newAdminsService(t *testing.T, name string) (Service, *users.Repository) {
	t.Helper()

	db := setupAdminsTestDB(t, name)
	usersRepo := users.NewRepository(db)
	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(db),
		Users:          usersRepo,
		BootstrapEmail: bootstrapEmail,
		Logger:         logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)
	return svc, usersRepo
}

func seedProfile(t *testing.T, repo *users.Repository, email string) *models.Profile {
	t.Helper()

	profile := &models.Profile{Email: email, Provider: "email", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), profile))
	return profile
}

func TestIsAdminBootstrapOverride(t *testing.T) {
	svc, _ := newAdminsService(t, "admins_bootstrap")

	// The bootstrap email is an admin regardless of grants, even with an
	// unknown user id, and regardless of case.
	allowed, err := svc.IsAdmin(context.Background(), uuid.New(), "Admin@UnlockGlobal.com")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.IsAdmin(context.Background(), uuid.New(), "someone@example.com")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPromoteAndRevoke(t *testing.T) {
	svc, usersRepo := newAdminsService(t, "admins_promote")
	ctx := context.Background()

	profile := seedProfile(t, usersRepo, "ops@example.com")
	actor := uuid.New()

	grant, err := svc.Promote(ctx, actor, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, grant.UserID)
	assert.Equal(t, "ops@example.com", grant.Email)
	require.NotNil(t, grant.GrantedBy)
	assert.Equal(t, actor, *grant.GrantedBy)

	allowed, err := svc.IsAdmin(ctx, profile.ID, profile.Email)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, svc.Revoke(ctx, profile.ID))

	allowed, err = svc.IsAdmin(ctx, profile.ID, profile.Email)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPromoteUnknownEmail(t *testing.T) {
	svc, _ := newAdminsService(t, "admins_unknown")

	_, err := svc.Promote(context.Background(), uuid.New(), "ghost@example.com")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestPromoteDuplicateGrant(t *testing.T) {
	svc, usersRepo := newAdminsService(t, "admins_duplicate")
	ctx := context.Background()

	seedProfile(t, usersRepo, "ops@example.com")

	_, err := svc.Promote(ctx, uuid.New(), "ops@example.com")
	require.NoError(t, err)

	_, err = svc.Promote(ctx, uuid.New(), "ops@example.com")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestBootstrapAdminIsImmutable(t *testing.T) {
	svc, usersRepo := newAdminsService(t, "admins_immutable")
	ctx := context.Background()

	bootstrap := seedProfile(t, usersRepo, bootstrapEmail)

	_, err := svc.Promote(ctx, uuid.New(), bootstrapEmail)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	err = svc.Revoke(ctx, bootstrap.ID)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRevokeWithoutGrant(t *testing.T) {
	svc, usersRepo := newAdminsService(t, "admins_revoke_missing")

	profile := seedProfile(t, usersRepo, "plain@example.com")

	err := svc.Revoke(context.Background(), profile.ID)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListIncludesGrantEmails(t *testing.T) {
	svc, usersRepo := newAdminsService(t, "admins_list")
	ctx := context.Background()

	seedProfile(t, usersRepo, "first@example.com")
	seedProfile(t, usersRepo, "second@example.com")

	_, err := svc.Promote(ctx, uuid.Nil, "first@example.com")
	require.NoError(t, err)
	_, err = svc.Promote(ctx, uuid.Nil, "second@example.com")
	require.NoError(t, err)

	grants, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	emails := []string{grants[0].Email, grants[1].Email}
	assert.Contains(t, emails, "first@example.com")
	assert.Contains(t, emails, "second@example.com")
	assert.Nil(t, grants[0].GrantedBy)
}
