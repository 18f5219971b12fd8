package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jithuth/roneywo/api/middleware"
	internalorders "github.com/jithuth/roneywo/internal/orders"
	"github.com/jithuth/roneywo/pkg/db/models"
	"github.com/jithuth/roneywo/pkg/enums"
	pkgerrors "github.com/jithuth/roneywo/pkg/errors"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/pagination"
)

type stubAdminOrderService struct {
	getFn        func(ctx context.Context, actorID uuid.UUID, actorEmail string, orderID uuid.UUID) (*models.Order, error)
	listFn       func(ctx context.Context, actorID uuid.UUID, actorEmail string, filter internalorders.Filter, page pagination.Params) (*internalorders.ListResult, error)
	transitionFn func(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error)
}

func (s *stubAdminOrderService) Get(ctx context.Context, actorID uuid.UUID, actorEmail string, orderID uuid.UUID) (*models.Order, error) {
	return s.getFn(ctx, actorID, actorEmail, orderID)
}

func (s *stubAdminOrderService) List(ctx context.Context, actorID uuid.UUID, actorEmail string, filter internalorders.Filter, page pagination.Params) (*internalorders.ListResult, error) {
	return s.listFn(ctx, actorID, actorEmail, filter, page)
}

func (s *stubAdminOrderService) Transition(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error) {
	return s.transitionFn(ctx, input)
}

var testLogger = logger.New(logger.Options{ServiceName: "test"})

func adminRequest(t *testing.T, method, target string, body string) *http.Request {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithIdentity(req.Context(), uuid.NewString(), "admin@unlockglobal.com", "access-1")
	return req.WithContext(ctx)
}

func TestAdminUpdateOrderStatusCompletes(t *testing.T) {
	orderID := uuid.New()
	var captured internalorders.TransitionInput

	svc := &stubAdminOrderService{
		transitionFn: func(_ context.Context, input internalorders.TransitionInput) (*models.Order, error) {
			captured = input
			code := input.UnlockCode
			return &models.Order{ID: input.OrderID, Status: input.Target, UnlockCode: &code}, nil
		},
	}

	router := chi.NewRouter()
	router.Post("/orders/{orderId}/status", AdminUpdateOrderStatus(svc, testLogger))

	req := adminRequest(t, http.MethodPost, "/orders/"+orderID.String()+"/status",
		`{"status":"completed","unlockCode":"AB12-CD34"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OrderID != orderID {
		t.Fatalf("expected order id %s, got %s", orderID, captured.OrderID)
	}
	if captured.Target != enums.OrderStatusCompleted {
		t.Fatalf("expected completed target, got %s", captured.Target)
	}
	if captured.UnlockCode != "AB12-CD34" {
		t.Fatalf("expected unlock code to pass through, got %q", captured.UnlockCode)
	}
	if captured.ActorEmail != "admin@unlockglobal.com" {
		t.Fatalf("expected actor email from context, got %q", captured.ActorEmail)
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed order in response, got %s", envelope.Data.Status)
	}
}

func TestAdminUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubAdminOrderService{
		transitionFn: func(context.Context, internalorders.TransitionInput) (*models.Order, error) {
			t.Fatal("transition must not be called for an invalid status")
			return nil, nil
		},
	}

	router := chi.NewRouter()
	router.Post("/orders/{orderId}/status", AdminUpdateOrderStatus(svc, testLogger))

	req := adminRequest(t, http.MethodPost, "/orders/"+uuid.NewString()+"/status", `{"status":"archived"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminUpdateOrderStatusRejectsBadOrderID(t *testing.T) {
	svc := &stubAdminOrderService{
		transitionFn: func(context.Context, internalorders.TransitionInput) (*models.Order, error) {
			t.Fatal("transition must not be called for a malformed id")
			return nil, nil
		},
	}

	router := chi.NewRouter()
	router.Post("/orders/{orderId}/status", AdminUpdateOrderStatus(svc, testLogger))

	req := adminRequest(t, http.MethodPost, "/orders/not-a-uuid/status", `{"status":"verified"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminUpdateOrderStatusStateConflict(t *testing.T) {
	svc := &stubAdminOrderService{
		transitionFn: func(context.Context, internalorders.TransitionInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot move from completed to pending")
		},
	}

	router := chi.NewRouter()
	router.Post("/orders/{orderId}/status", AdminUpdateOrderStatus(svc, testLogger))

	req := adminRequest(t, http.MethodPost, "/orders/"+uuid.NewString()+"/status", `{"status":"pending"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict code, got %q", envelope.Error.Code)
	}
	if !strings.Contains(envelope.Error.Message, "cannot move") {
		t.Fatalf("expected transition message, got %q", envelope.Error.Message)
	}
}

func TestAdminOrdersParsesFilters(t *testing.T) {
	var captured internalorders.Filter
	var capturedPage pagination.Params

	svc := &stubAdminOrderService{
		listFn: func(_ context.Context, _ uuid.UUID, _ string, filter internalorders.Filter, page pagination.Params) (*internalorders.ListResult, error) {
			captured = filter
			capturedPage = page
			return &internalorders.ListResult{Orders: []models.Order{}, Total: 0}, nil
		},
	}

	router := chi.NewRouter()
	router.Get("/orders", AdminOrders(svc, testLogger))

	req := adminRequest(t, http.MethodGet,
		"/orders?search=3598&email=alice&status=verified&startDate=2026-03-01&endDate=2026-03-10&limit=25&offset=50", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Search != "3598" || captured.Email != "alice" {
		t.Fatalf("unexpected filter: %+v", captured)
	}
	if captured.Status != enums.OrderStatusVerified {
		t.Fatalf("expected verified status filter, got %q", captured.Status)
	}
	if captured.StartDate == nil || captured.EndDate == nil {
		t.Fatal("expected both dates parsed")
	}
	if capturedPage.Limit != 25 || capturedPage.Offset != 50 {
		t.Fatalf("unexpected pagination: %+v", capturedPage)
	}
}

func TestAdminOrdersStatusAllMeansNoFilter(t *testing.T) {
	var captured internalorders.Filter

	svc := &stubAdminOrderService{
		listFn: func(_ context.Context, _ uuid.UUID, _ string, filter internalorders.Filter, _ pagination.Params) (*internalorders.ListResult, error) {
			captured = filter
			return &internalorders.ListResult{}, nil
		},
	}

	router := chi.NewRouter()
	router.Get("/orders", AdminOrders(svc, testLogger))

	req := adminRequest(t, http.MethodGet, "/orders?status=all", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Status != "" {
		t.Fatalf("expected no status filter, got %q", captured.Status)
	}
}

func TestAdminOrdersWithoutIdentity(t *testing.T) {
	svc := &stubAdminOrderService{
		listFn: func(context.Context, uuid.UUID, string, internalorders.Filter, pagination.Params) (*internalorders.ListResult, error) {
			t.Fatal("list must not be called without an identity")
			return nil, nil
		},
	}

	router := chi.NewRouter()
	router.Get("/orders", AdminOrders(svc, testLogger))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
