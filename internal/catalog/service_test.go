package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

func setupCatalogTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, table := range []string{"countries", "brands"} {
		ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
  created_at DATETIME
);`, table)
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newCatalogService(t *testing.T, name string) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(setupCatalogTestDB(t, name)),
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)
	return svc
}

func TestPublicNamesFallsBackWhenEmpty(t *testing.T) {
	svc := newCatalogService(t, "catalog_fallback")

	names := svc.PublicNames(context.Background(), enums.CatalogKindBrands)
	assert.Equal(t, DefaultNames(enums.CatalogKindBrands), names)
	assert.Contains(t, names, "Huawei")
}

func TestPublicNamesServesManagedRows(t *testing.T) {
	svc := newCatalogService(t, "catalog_managed")
	ctx := context.Background()

	_, err := svc.Create(ctx, enums.CatalogKindCountries, "Iceland")
	require.NoError(t, err)
	_, err = svc.Create(ctx, enums.CatalogKindCountries, "Austria")
	require.NoError(t, err)

	names := svc.PublicNames(ctx, enums.CatalogKindCountries)
	assert.Equal(t, []string{"Austria", "Iceland"}, names)
}

func TestPublicNamesSkipsInactiveAndDeleted(t *testing.T) {
	svc := newCatalogService(t, "catalog_hidden")
	ctx := context.Background()

	visible, err := svc.Create(ctx, enums.CatalogKindBrands, "ZTE")
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, enums.CatalogKindBrands, "Netgear")
	require.NoError(t, err)
	gone, err := svc.Create(ctx, enums.CatalogKindBrands, "Alcatel")
	require.NoError(t, err)

	_, err = svc.ToggleActive(ctx, enums.CatalogKindBrands, hidden.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, enums.CatalogKindBrands, gone.ID))

	names := svc.PublicNames(ctx, enums.CatalogKindBrands)
	assert.Equal(t, []string{visible.Name}, names)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newCatalogService(t, "catalog_blank")

	_, err := svc.Create(context.Background(), enums.CatalogKindCountries, "   ")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRename(t *testing.T) {
	svc := newCatalogService(t, "catalog_rename")
	ctx := context.Background()

	item, err := svc.Create(ctx, enums.CatalogKindCountries, "Grmany")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, enums.CatalogKindCountries, item.ID, "Germany")
	require.NoError(t, err)
	assert.Equal(t, "Germany", renamed.Name)
	assert.Equal(t, item.ID, renamed.ID)

	_, err = svc.Rename(ctx, enums.CatalogKindCountries, uuid.New(), "Nowhere")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestToggleActiveIsInvolutive(t *testing.T) {
	svc := newCatalogService(t, "catalog_toggle")
	ctx := context.Background()

	item, err := svc.Create(ctx, enums.CatalogKindBrands, "TP-Link")
	require.NoError(t, err)
	require.True(t, item.IsActive)

	toggled, err := svc.ToggleActive(ctx, enums.CatalogKindBrands, item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleActive(ctx, enums.CatalogKindBrands, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	svc := newCatalogService(t, "catalog_delete")
	ctx := context.Background()

	item, err := svc.Create(ctx, enums.CatalogKindBrands, "D-Link")
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, enums.CatalogKindBrands, item.ID))
	// Deleting again is not an error; the row still exists under the flag.
	require.NoError(t, svc.SoftDelete(ctx, enums.CatalogKindBrands, item.ID))

	items, err := svc.AdminList(ctx, enums.CatalogKindBrands)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = svc.SoftDelete(ctx, enums.CatalogKindBrands, uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
