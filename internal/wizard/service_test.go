package wizard

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jithuth/roneywo/internal/advisor"
	"github.com/jithuth/roneywo/internal/orders"
	"github.com/jithuth/roneywo/internal/users"
	"github.com/jithuth/roneywo/internal/wallets"
	"github.com/jithuth/roneywo/pkg/config"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/pagination"
	"github.com/jithuth/roneywo/pkg/types"
)

type fakeDraftStorage struct {
	values map[string]string
}

func newFakeDraftStorage() *fakeDraftStorage {
	return &fakeDraftStorage{values: map[string]string{}}
}

func (f *fakeDraftStorage) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeDraftStorage) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeDraftStorage) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeDraftStorage) DraftKey(userID string) string {
	return "wizard:draft:" + userID
}

type stubAnalyzer struct {
	advisory advisor.Advisory
	calls    int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ types.DeviceInfo) advisor.Advisory {
	s.calls++
	return s.advisory
}

type stubWallets struct{}

func (stubWallets) List(_ context.Context) []wallets.WalletDTO {
	return wallets.FallbackWallets()
}

func (stubWallets) FindByCurrency(_ context.Context, currency string) (*wallets.WalletDTO, error) {
	for _, wallet := range wallets.FallbackWallets() {
		if strings.EqualFold(wallet.Currency, currency) {
			found := wallet
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no wallet for that currency")
}

type stubOrders struct {
	createFn func(ctx context.Context, input orders.CreateInput) (*models.Order, error)
}

func (s *stubOrders) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	return s.createFn(ctx, input)
}

func (s *stubOrders) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrders) ListByUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) Get(context.Context, uuid.UUID, string, uuid.UUID) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrders) List(context.Context, uuid.UUID, string, orders.Filter, pagination.Params) (*orders.ListResult, error) {
	return nil, nil
}

func (s *stubOrders) Transition(context.Context, orders.TransitionInput) (*models.Order, error) {
	return nil, nil
}

type stubUsers struct{}

func (stubUsers) Ensure(_ context.Context, id uuid.UUID, email string) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{ID: id, Email: strings.ToLower(email), Provider: "email"}, nil
}

func (stubUsers) GetByID(context.Context, uuid.UUID) (*users.ProfileDTO, error) {
	return nil, nil
}

func (stubUsers) List(context.Context, string, pagination.Params) (*users.ListResult, error) {
	return nil, nil
}

type stubUploader struct {
	url string
	key string
	err error
}

func (s *stubUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.key = key
	_, _ = io.Copy(io.Discard, body)
	return s.url, nil
}

type wizardFixture struct {
	svc      Service
	analyzer *stubAnalyzer
	uploader *stubUploader
	orders   *stubOrders
	identity Identity
}

func newWizardFixture(t *testing.T, cfg config.WizardConfig) *wizardFixture {
	t.Helper()

	if cfg.DraftTTL == 0 {
		cfg.DraftTTL = time.Hour
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = 5
	}

	analyzerStub := &stubAnalyzer{advisory: advisor.Advisory{
		Difficulty:    "Medium",
		EstimatedTime: "2-4 Hours",
		SuccessRate:   "95%",
		Message:       "Vendor NCK table lookup.",
	}}
	uploaderStub := &stubUploader{url: "https://cdn.example.com/proofs/test.png"}
	ordersStub := &stubOrders{
		createFn: func(_ context.Context, input orders.CreateInput) (*models.Order, error) {
			return &models.Order{
				ID:              uuid.New(),
				UserID:          input.UserID,
				UserEmail:       input.UserEmail,
				Device:          input.Device,
				PaymentProofURL: input.PaymentProofURL,
				Amount:          input.Amount,
				Currency:        input.Currency,
				Status:          enums.OrderStatusPending,
			}, nil
		},
	}

	svc, err := NewService(ServiceParams{
		Store:    &Store{redis: newFakeDraftStorage(), ttl: cfg.DraftTTL},
		Advisor:  analyzerStub,
		Wallets:  stubWallets{},
		Orders:   ordersStub,
		Users:    stubUsers{},
		Uploader: uploaderStub,
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)

	return &wizardFixture{
		svc:      svc,
		analyzer: analyzerStub,
		uploader: uploaderStub,
		orders:   ordersStub,
		identity: Identity{UserID: uuid.New(), Email: "customer@example.com"},
	}
}

var wizardTestDevice = types.DeviceInfo{
	Country: "Germany",
	Brand:   "Huawei",
	Model:   "E5573s-320",
	IMEI:    "359871234567890",
}

func (f *wizardFixture) advanceTo(t *testing.T, target enums.WizardStep) *Draft {
	t.Helper()
	ctx := context.Background()

	draft, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)

	if draft.Step == target {
		return draft
	}

	draft, err = f.svc.SetDevice(ctx, f.identity.UserID, wizardTestDevice)
	require.NoError(t, err)

	for draft.Step != target {
		if draft.Step == enums.WizardStepPayment && draft.Wallet == nil {
			draft, err = f.svc.SelectWallet(ctx, f.identity.UserID, "USDT (TRC20)")
			require.NoError(t, err)
		}
		draft, err = f.svc.Advance(ctx, f.identity)
		require.NoError(t, err)
	}
	return draft
}

func TestWizardHappyPath(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	draft, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepSelection, draft.Step)

	draft, err = f.svc.SetDevice(ctx, f.identity.UserID, wizardTestDevice)
	require.NoError(t, err)
	require.NotNil(t, draft.Device)

	draft, err = f.svc.Analyze(ctx, f.identity.UserID)
	require.NoError(t, err)
	require.NotNil(t, draft.Advisory)
	assert.True(t, draft.AnalysisDone)
	assert.Equal(t, "Medium", draft.Advisory.Difficulty)

	draft, err = f.svc.Advance(ctx, f.identity)
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepAuth, draft.Step)

	draft, err = f.svc.Advance(ctx, f.identity)
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepPayment, draft.Step)
	require.NotNil(t, draft.Identity)
	assert.Equal(t, f.identity.UserID, draft.Identity.UserID)

	draft, err = f.svc.SelectWallet(ctx, f.identity.UserID, "USDT (TRC20)")
	require.NoError(t, err)
	require.NotNil(t, draft.Wallet)
	assert.Equal(t, "USDT (TRC20)", draft.Wallet.Currency)

	draft, err = f.svc.Advance(ctx, f.identity)
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepConfirmation, draft.Step)

	proof := bytes.Repeat([]byte{0xAB}, 2*1024*1024)
	result, err := f.svc.Submit(ctx, f.identity, ProofUpload{
		Filename:    "receipt.PNG",
		ContentType: "image/png",
		Size:        int64(len(proof)),
		Body:        bytes.NewReader(proof),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepSuccess, result.Draft.Step)
	require.NotNil(t, result.Draft.OrderID)
	assert.Equal(t, result.Order.ID, *result.Draft.OrderID)
	assert.Equal(t, enums.OrderStatusPending, result.Order.Status)
	assert.Equal(t, "customer@example.com", result.Order.UserEmail)
	assert.True(t, strings.HasPrefix(f.uploader.key, f.identity.UserID.String()+"/"))
	assert.True(t, strings.HasSuffix(f.uploader.key, ".png"))
}

func TestStartResumesExistingDraft(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)
	_, err = f.svc.SetDevice(ctx, f.identity.UserID, wizardTestDevice)
	require.NoError(t, err)

	resumed, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)
	require.NotNil(t, resumed.Device)
	assert.Equal(t, wizardTestDevice.IMEI, resumed.Device.IMEI)
}

func TestSetDeviceClearsAdvisory(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)
	_, err = f.svc.SetDevice(ctx, f.identity.UserID, wizardTestDevice)
	require.NoError(t, err)
	_, err = f.svc.Analyze(ctx, f.identity.UserID)
	require.NoError(t, err)

	other := wizardTestDevice
	other.Model = "B525s-23a"
	draft, err := f.svc.SetDevice(ctx, f.identity.UserID, other)
	require.NoError(t, err)
	assert.Nil(t, draft.Advisory)
	assert.False(t, draft.AnalysisDone)
}

func TestSetDeviceValidation(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)

	_, err = f.svc.SetDevice(ctx, f.identity.UserID, types.DeviceInfo{Country: "Germany", IMEI: "123"})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	problems, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, problems, "brand")
	assert.Contains(t, problems, "imei")
}

func TestAdvanceWithoutDevice(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, f.identity)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestAdvanceRequiresAnalysisWhenConfigured(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{RequireAnalysis: true})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)
	_, err = f.svc.SetDevice(ctx, f.identity.UserID, wizardTestDevice)
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, f.identity)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	_, err = f.svc.Analyze(ctx, f.identity.UserID)
	require.NoError(t, err)

	draft, err := f.svc.Advance(ctx, f.identity)
	require.NoError(t, err)
	assert.Equal(t, enums.WizardStepAuth, draft.Step)
}

func TestSelectWalletOffStepReportsCurrent(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})

	_, err := f.svc.Start(context.Background(), f.identity)
	require.NoError(t, err)

	_, err = f.svc.SelectWallet(context.Background(), f.identity.UserID, "USDT (TRC20)")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, enums.WizardStepSelection.String(), details["currentStep"])
}

func TestSubmitRejectsOversizedProof(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{MaxUploadMB: 1})
	f.advanceTo(t, enums.WizardStepConfirmation)

	proof := bytes.Repeat([]byte{0xCD}, 2*1024*1024)
	_, err := f.svc.Submit(context.Background(), f.identity, ProofUpload{
		Filename:    "receipt.png",
		ContentType: "image/png",
		Size:        int64(len(proof)),
		Body:        bytes.NewReader(proof),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "1MB")
}

func TestSubmitRequiresConfirmationStep(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})

	_, err := f.svc.Start(context.Background(), f.identity)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), f.identity, ProofUpload{
		Filename:    "receipt.png",
		ContentType: "image/png",
		Size:        10,
		Body:        bytes.NewReader([]byte("0123456789")),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestGetWithoutDraft(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})

	_, err := f.svc.Get(context.Background(), f.identity.UserID)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestResetDiscardsDraft(t *testing.T) {
	f := newWizardFixture(t, config.WizardConfig{})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.identity)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx, f.identity.UserID))

	_, err = f.svc.Get(ctx, f.identity.UserID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
