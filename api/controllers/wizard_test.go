package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/middleware"
	"github.com/jithuth/roneywo/internal/wizard"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	"github.com/jithuth/roneywo/pkg/types"
)

type stubWizardService struct {
	startFn        func(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error)
	getFn          func(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error)
	setDeviceFn    func(ctx context.Context, userID uuid.UUID, device types.DeviceInfo) (*wizard.Draft, error)
	analyzeFn      func(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error)
	advanceFn      func(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error)
	selectWalletFn func(ctx context.Context, userID uuid.UUID, currency string) (*wizard.Draft, error)
	submitFn       func(ctx context.Context, identity wizard.Identity, upload wizard.ProofUpload) (*wizard.SubmitResult, error)
	resetFn        func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubWizardService) Start(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error) {
	return s.startFn(ctx, identity)
}

func (s *stubWizardService) Get(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error) {
	return s.getFn(ctx, userID)
}

func (s *stubWizardService) SetDevice(ctx context.Context, userID uuid.UUID, device types.DeviceInfo) (*wizard.Draft, error) {
	return s.setDeviceFn(ctx, userID, device)
}

func (s *stubWizardService) Analyze(ctx context.Context, userID uuid.UUID) (*wizard.Draft, error) {
	return s.analyzeFn(ctx, userID)
}

func (s *stubWizardService) Advance(ctx context.Context, identity wizard.Identity) (*wizard.Draft, error) {
	return s.advanceFn(ctx, identity)
}

func (s *stubWizardService) SelectWallet(ctx context.Context, userID uuid.UUID, currency string) (*wizard.Draft, error) {
	return s.selectWalletFn(ctx, userID, currency)
}

func (s *stubWizardService) Submit(ctx context.Context, identity wizard.Identity, upload wizard.ProofUpload) (*wizard.SubmitResult, error) {
	return s.submitFn(ctx, identity, upload)
}

func (s *stubWizardService) Reset(ctx context.Context, userID uuid.UUID) error {
	return s.resetFn(ctx, userID)
}

func authedRequest(req *http.Request, userID uuid.UUID, email string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), userID.String(), email, "access-1")
	return req.WithContext(ctx)
}

func TestWizardStartCreates(t *testing.T) {
	userID := uuid.New()
	svc := &stubWizardService{
		startFn: func(_ context.Context, identity wizard.Identity) (*wizard.Draft, error) {
			if identity.UserID != userID {
				t.Fatalf("expected user id %s, got %s", userID, identity.UserID)
			}
			return &wizard.Draft{Step: enums.WizardStepSelection}, nil
		},
	}

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/wizard", nil), userID, "a@example.com")
	rec := httptest.NewRecorder()
	WizardStart(svc, testLogger)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data wizard.Draft `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.Step != enums.WizardStepSelection {
		t.Fatalf("expected selection step, got %s", envelope.Data.Step)
	}
}

func TestWizardStartUnauthenticated(t *testing.T) {
	svc := &stubWizardService{
		startFn: func(context.Context, wizard.Identity) (*wizard.Draft, error) {
			t.Fatal("start must not be called without an identity")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/wizard", nil)
	rec := httptest.NewRecorder()
	WizardStart(svc, testLogger)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWizardSetDevicePassesBody(t *testing.T) {
	var captured types.DeviceInfo
	svc := &stubWizardService{
		setDeviceFn: func(_ context.Context, _ uuid.UUID, device types.DeviceInfo) (*wizard.Draft, error) {
			captured = device
			return &wizard.Draft{Step: enums.WizardStepSelection, Device: &device}, nil
		},
	}

	body := `{"country":"Germany","brand":"Huawei","model":"E5573s-320","imei":"359871234567890"}`
	req := httptest.NewRequest(http.MethodPut, "/wizard/device", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, uuid.New(), "a@example.com")

	rec := httptest.NewRecorder()
	WizardSetDevice(svc, testLogger)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.IMEI != "359871234567890" {
		t.Fatalf("expected imei to pass through, got %q", captured.IMEI)
	}
}

func TestWizardSetDeviceRejectsUnknownFields(t *testing.T) {
	svc := &stubWizardService{
		setDeviceFn: func(context.Context, uuid.UUID, types.DeviceInfo) (*wizard.Draft, error) {
			t.Fatal("set device must not be called for a malformed body")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/wizard/device", bytes.NewReader([]byte(`{"serial":"nope"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, uuid.New(), "a@example.com")

	rec := httptest.NewRecorder()
	WizardSetDevice(svc, testLogger)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWizardSelectWalletRequiresCurrency(t *testing.T) {
	svc := &stubWizardService{
		selectWalletFn: func(context.Context, uuid.UUID, string) (*wizard.Draft, error) {
			t.Fatal("select wallet must not be called without a currency")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/wizard/wallet", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, uuid.New(), "a@example.com")

	rec := httptest.NewRecorder()
	WizardSelectWallet(svc, testLogger)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWizardSubmitUploadsProof(t *testing.T) {
	var captured wizard.ProofUpload
	orderID := uuid.New()
	svc := &stubWizardService{
		submitFn: func(_ context.Context, _ wizard.Identity, upload wizard.ProofUpload) (*wizard.SubmitResult, error) {
			captured = upload
			return &wizard.SubmitResult{
				Draft: &wizard.Draft{Step: enums.WizardStepSuccess, OrderID: &orderID},
				Order: &models.Order{ID: orderID, Status: enums.OrderStatusPending},
			}, nil
		},
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("proof", "receipt.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("proof-bytes")); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/wizard/submit", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = authedRequest(req, uuid.New(), "a@example.com")

	rec := httptest.NewRecorder()
	WizardSubmit(svc, 5*1024*1024, testLogger)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Filename != "receipt.png" {
		t.Fatalf("expected filename to pass through, got %q", captured.Filename)
	}
	if captured.Size != int64(len("proof-bytes")) {
		t.Fatalf("expected size %d, got %d", len("proof-bytes"), captured.Size)
	}
}

func TestWizardSubmitWithoutFile(t *testing.T) {
	svc := &stubWizardService{
		submitFn: func(context.Context, wizard.Identity, wizard.ProofUpload) (*wizard.SubmitResult, error) {
			t.Fatal("submit must not be called without a proof file")
			return nil, nil
		},
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/wizard/submit", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = authedRequest(req, uuid.New(), "a@example.com")

	rec := httptest.NewRecorder()
	WizardSubmit(svc, 5*1024*1024, testLogger)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWizardResetReturnsStatus(t *testing.T) {
	called := false
	svc := &stubWizardService{
		resetFn: func(context.Context, uuid.UUID) error {
			called = true
			return nil
		},
	}

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/wizard", nil), uuid.New(), "a@example.com")
	rec := httptest.NewRecorder()
	WizardReset(svc, testLogger)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected reset to be called")
	}
}
