package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/metrics"
	"github.com/jithuth/roneywo/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// adminGate answers whether an actor may operate on any order. The gate
// is consulted per call so revocations take effect immediately.
type adminGate interface {
	IsAdmin(ctx context.Context, userID uuid.UUID, email string) (bool, error)
}

// Service owns the unlock order lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)

	// Admin surface.
	Get(ctx context.Context, actorID uuid.UUID, actorEmail string, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, actorID uuid.UUID, actorEmail string, filter Filter, page pagination.Params) (*ListResult, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Tx      txRunner
	Gate    adminGate
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	gate    adminGate
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Gate == nil {
		return nil, fmt.Errorf("admin gate is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		gate:    params.Gate,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.UserEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user email is required")
	}
	if problems := input.Device.Validate(); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device details are incomplete").WithDetails(problems)
	}
	if strings.TrimSpace(input.PaymentProofURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof is required")
	}
	if strings.TrimSpace(input.Currency) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	order := &models.Order{
		UserID:          input.UserID,
		UserEmail:       strings.ToLower(strings.TrimSpace(input.UserEmail)),
		Device:          input.Device,
		PaymentProofURL: input.PaymentProofURL,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Status:          enums.OrderStatusPending,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting order")
	}

	s.metrics.IncCreated()
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order created")
	return order, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	// Ownership failures read the same as missing rows on purpose.
	if order == nil || order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorEmail string, orderID uuid.UUID) (*models.Order, error) {
	if err := s.requireAdmin(ctx, actorID, actorEmail); err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID, actorEmail string, filter Filter, page pagination.Params) (*ListResult, error) {
	if err := s.requireAdmin(ctx, actorID, actorEmail); err != nil {
		return nil, err
	}
	orders, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return &ListResult{Orders: orders, Total: total}, nil
}

// Transition applies an admin status change. The status and, for
// completions, the unlock code are committed in one transaction so no
// order is ever completed without its code.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if err := s.requireAdmin(ctx, input.ActorID, input.ActorEmail); err != nil {
		return nil, err
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	code := strings.TrimSpace(input.UnlockCode)
	if input.Target == enums.OrderStatusCompleted && code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an unlock code is required to complete an order")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if !CanTransition(order.Status, input.Target) {
			s.metrics.IncRejected(order.Status.String(), input.Target.String())
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot move from %s to %s", order.Status, input.Target),
			)
		}

		var unlockCode *string
		if input.Target == enums.OrderStatusCompleted {
			unlockCode = &code
		}
		if err := repo.UpdateStatus(ctx, order.ID, input.Target, unlockCode); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
		}

		s.metrics.IncTransition(order.Status.String(), input.Target.String())

		order.Status = input.Target
		if unlockCode != nil {
			order.UnlockCode = unlockCode
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": updated.ID.String(),
		"status":   updated.Status.String(),
	}), "order status updated")
	return updated, nil
}

func (s *service) requireAdmin(ctx context.Context, actorID uuid.UUID, actorEmail string) error {
	allowed, err := s.gate.IsAdmin(ctx, actorID, actorEmail)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking admin access")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}
