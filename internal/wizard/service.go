package wizard

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/internal/advisor"
	"github.com/jithuth/roneywo/internal/orders"
	"github.com/jithuth/roneywo/internal/users"
	"github.com/jithuth/roneywo/internal/wallets"
	"github.com/jithuth/roneywo/pkg/config"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/types"
)

// analyzer is the advisory surface consumed by the wizard.
type analyzer interface {
	Analyze(ctx context.Context, device types.DeviceInfo) advisor.Advisory
}

// uploader stores payment proofs and returns their public URL.
type uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ProofUpload is a payment proof received from the client.
type ProofUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitResult bundles the finished draft with the created order.
type SubmitResult struct {
	Draft *Draft        `json:"draft"`
	Order *models.Order `json:"order"`
}

// Service drives the unlock intake flow step by step.
type Service interface {
	Start(ctx context.Context, identity Identity) (*Draft, error)
	Get(ctx context.Context, userID uuid.UUID) (*Draft, error)
	SetDevice(ctx context.Context, userID uuid.UUID, device types.DeviceInfo) (*Draft, error)
	Analyze(ctx context.Context, userID uuid.UUID) (*Draft, error)
	Advance(ctx context.Context, identity Identity) (*Draft, error)
	SelectWallet(ctx context.Context, userID uuid.UUID, currency string) (*Draft, error)
	Submit(ctx context.Context, identity Identity, upload ProofUpload) (*SubmitResult, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Store    *Store
	Advisor  analyzer
	Wallets  wallets.Service
	Orders   orders.Service
	Users    users.Service
	Uploader uploader
	Config   config.WizardConfig
	Logger   *logger.Logger
}

type service struct {
	store    *Store
	advisor  analyzer
	wallets  wallets.Service
	orders   orders.Service
	users    users.Service
	uploader uploader
	cfg      config.WizardConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService validates dependencies and builds the wizard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("draft store is required")
	}
	if params.Advisor == nil {
		return nil, fmt.Errorf("advisor client is required")
	}
	if params.Wallets == nil {
		return nil, fmt.Errorf("wallets service is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users service is required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("storage uploader is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		store:    params.Store,
		advisor:  params.Advisor,
		wallets:  params.Wallets,
		orders:   params.Orders,
		users:    params.Users,
		uploader: params.Uploader,
		cfg:      params.Config,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// Start resumes the live draft when one exists, otherwise opens a fresh
// one at the selection step.
func (s *service) Start(ctx context.Context, identity Identity) (*Draft, error) {
	draft, err := s.load(ctx, identity.UserID)
	if err == nil {
		return draft, nil
	}
	if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeNotFound {
		return nil, err
	}

	draft = newDraft()
	if err := s.store.Save(ctx, identity.UserID, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving draft")
	}
	s.logg.Info(s.logg.WithWizardStep(ctx, draft.Step.String()), "wizard started")
	return draft, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	return s.load(ctx, userID)
}

func (s *service) SetDevice(ctx context.Context, userID uuid.UUID, device types.DeviceInfo) (*Draft, error) {
	draft, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Step != enums.WizardStepSelection {
		return nil, stepConflict(draft.Step, "device details can only change on the selection step")
	}
	if problems := device.Validate(); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device details are incomplete").WithDetails(problems)
	}

	// Changing the device invalidates any prior analysis.
	draft.Device = &device
	draft.Advisory = nil
	draft.AnalysisDone = false

	if err := s.store.Save(ctx, userID, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving draft")
	}
	return draft, nil
}

func (s *service) Analyze(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	draft, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Step != enums.WizardStepSelection {
		return nil, stepConflict(draft.Step, "analysis runs on the selection step")
	}
	if draft.Device == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "select a device before requesting analysis")
	}

	advisory := s.advisor.Analyze(ctx, *draft.Device)
	draft.Advisory = &advisory
	draft.AnalysisDone = true

	if err := s.store.Save(ctx, userID, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving draft")
	}
	return draft, nil
}

func (s *service) Advance(ctx context.Context, identity Identity) (*Draft, error) {
	draft, err := s.load(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	switch draft.Step {
	case enums.WizardStepSelection:
		if draft.Device == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "select a device before continuing")
		}
		if s.cfg.RequireAnalysis && !draft.AnalysisDone {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "device analysis is required before continuing")
		}
		draft.Step = enums.WizardStepAuth

	case enums.WizardStepAuth:
		profile, err := s.users.Ensure(ctx, identity.UserID, identity.Email)
		if err != nil {
			return nil, err
		}
		draft.Identity = &Identity{UserID: profile.ID, Email: profile.Email}
		draft.Step = enums.WizardStepPayment

	case enums.WizardStepPayment:
		if draft.Wallet == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "select a payment wallet before continuing")
		}
		draft.Step = enums.WizardStepConfirmation

	case enums.WizardStepConfirmation:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submit the order to finish the wizard")

	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "the wizard is already complete")
	}

	if err := s.store.Save(ctx, identity.UserID, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving draft")
	}
	s.logg.Info(s.logg.WithWizardStep(ctx, draft.Step.String()), "wizard advanced")
	return draft, nil
}

func (s *service) SelectWallet(ctx context.Context, userID uuid.UUID, currency string) (*Draft, error) {
	draft, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Step != enums.WizardStepPayment {
		return nil, stepConflict(draft.Step, "wallet selection happens on the payment step")
	}

	wallet, err := s.wallets.FindByCurrency(ctx, currency)
	if err != nil {
		return nil, err
	}
	draft.Wallet = wallet

	if err := s.store.Save(ctx, userID, draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving draft")
	}
	return draft, nil
}

// Submit uploads the payment proof, opens the order, and moves the
// draft to the success step. A failed upload or insert leaves the draft
// on the confirmation step untouched.
func (s *service) Submit(ctx context.Context, identity Identity, upload ProofUpload) (*SubmitResult, error) {
	draft, err := s.load(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if draft.Step != enums.WizardStepConfirmation {
		return nil, stepConflict(draft.Step, "orders are submitted from the confirmation step")
	}
	if draft.Device == nil || draft.Wallet == nil || draft.Identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "the draft is missing required details")
	}
	if upload.Body == nil || upload.Size <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a payment proof file is required")
	}
	if upload.Size > s.cfg.MaxUploadBytes() {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("payment proof must be %dMB or smaller", s.cfg.MaxUploadMB),
		)
	}

	key := s.proofKey(identity.UserID, upload.Filename)
	proofURL, err := s.uploader.Upload(ctx, key, upload.ContentType, io.LimitReader(upload.Body, s.cfg.MaxUploadBytes()))
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, orders.CreateInput{
		UserID:          draft.Identity.UserID,
		UserEmail:       draft.Identity.Email,
		Device:          *draft.Device,
		PaymentProofURL: proofURL,
		Amount:          draft.Wallet.Price,
		Currency:        draft.Wallet.Currency,
	})
	if err != nil {
		return nil, err
	}

	draft.Step = enums.WizardStepSuccess
	draft.OrderID = &order.ID
	if err := s.store.Save(ctx, identity.UserID, draft); err != nil {
		// The order exists; losing the draft write only affects the
		// success screen.
		s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "failed to persist submitted draft")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "wizard submitted")
	return &SubmitResult{Draft: draft, Order: order}, nil
}

func (s *service) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting draft")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	draft, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading draft")
	}
	if draft == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no wizard in progress")
	}
	return draft, nil
}

func (s *service) proofKey(userID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%d%s", userID, s.now().UnixMilli(), ext)
}

func stepConflict(current enums.WizardStep, msg string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]string{"currentStep": current.String()})
}
