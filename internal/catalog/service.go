package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
)

// Service manages the country and brand reference lists.
type Service interface {
	// PublicNames returns active item names for the intake form. It
	// degrades to the built-in defaults instead of failing.
	PublicNames(ctx context.Context, kind enums.CatalogKind) []string
	AdminList(ctx context.Context, kind enums.CatalogKind) ([]models.CatalogItem, error)
	Create(ctx context.Context, kind enums.CatalogKind, name string) (*models.CatalogItem, error)
	Rename(ctx context.Context, kind enums.CatalogKind, id uuid.UUID, name string) (*models.CatalogItem, error)
	ToggleActive(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (*models.CatalogItem, error)
	SoftDelete(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) error
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

// NewService validates dependencies and builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) PublicNames(ctx context.Context, kind enums.CatalogKind) []string {
	items, err := s.repo.ListActive(ctx, kind)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "catalog_kind", kind.String()), "catalog read failed, serving defaults")
		return DefaultNames(kind)
	}
	if len(items) == 0 {
		return DefaultNames(kind)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func (s *service) AdminList(ctx context.Context, kind enums.CatalogKind) ([]models.CatalogItem, error) {
	items, err := s.repo.ListAll(ctx, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog items")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, kind enums.CatalogKind, name string) (*models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	item := &models.CatalogItem{Name: name, IsActive: true}
	if err := s.repo.Insert(ctx, kind, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting catalog item")
	}
	return item, nil
}

func (s *service) Rename(ctx context.Context, kind enums.CatalogKind, id uuid.UUID, name string) (*models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	updated, err := s.repo.UpdateName(ctx, kind, id, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "renaming catalog item")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}
	return s.mustFind(ctx, kind, id)
}

func (s *service) ToggleActive(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (*models.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}

	if _, err := s.repo.UpdateActive(ctx, kind, id, !item.IsActive); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling catalog item")
	}
	item.IsActive = !item.IsActive
	return item, nil
}

func (s *service) SoftDelete(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) error {
	existed, err := s.repo.MarkDeleted(ctx, kind, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting catalog item")
	}
	if !existed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, kind enums.CatalogKind, id uuid.UUID) (*models.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}
	return item, nil
}
