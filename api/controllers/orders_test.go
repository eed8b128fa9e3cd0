package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artesania-app/artesania-backend/api/middleware"
	ordersvc "github.com/artesania-app/artesania-backend/internal/orders"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
)

type stubOrdersService struct {
	order *models.Order
	err   error
}

func (s stubOrdersService) Create(ctx context.Context, customerID uuid.UUID, input ordersvc.CreateInput) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrdersService) Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrdersService) ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ordersvc.OrderList, error) {
	panic("not implemented")
}

func (s stubOrdersService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	return s.order, s.err
}

func (s stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	panic("not implemented")
}

func (s stubOrdersService) Sales(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.SalesList, error) {
	panic("not implemented")
}

func authedRequest(r *http.Request, userID uuid.UUID, role enums.UserRole) *http.Request {
	ctx := middleware.WithUserID(r.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateOrderReturnsCreated(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		Status:      enums.OrderStatusAwaitingPayment,
		TotalAmount: decimal.NewFromInt(300),
	}
	handler := CreateOrder(stubOrdersService{order: order}, nil)

	payload := fmt.Sprintf(`{"address_id":%q,"items":[{"product_id":%q,"quantity":2}]}`, uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(payload)))
	req = authedRequest(req, uuid.New(), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order %+v", envelope.Data)
	}
}

func TestCreateOrderRequiresItems(t *testing.T) {
	handler := CreateOrder(stubOrdersService{}, nil)

	payload := fmt.Sprintf(`{"address_id":%q,"items":[]}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(payload)))
	req = authedRequest(req, uuid.New(), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	handler := CreateOrder(stubOrdersService{}, nil)

	payload := fmt.Sprintf(`{"address_id":%q,"items":[{"product_id":%q,"quantity":1}]}`, uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(payload)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCancelOrderMapsBadRequest(t *testing.T) {
	handler := CancelOrder(stubOrdersService{
		err: pkgerrors.New(pkgerrors.CodeValidation, "Cannot cancel order with status: shipped"),
	}, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCustomer)
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGetOrderRejectsMalformedID(t *testing.T) {
	handler := GetOrder(stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	req = authedRequest(req, uuid.New(), enums.UserRoleCustomer)
	req = withURLParam(req, "orderId", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
