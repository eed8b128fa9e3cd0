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

	productsvc "github.com/artesania-app/artesania-backend/internal/products"
	"github.com/artesania-app/artesania-backend/pkg/config"
	"github.com/artesania-app/artesania-backend/pkg/db/models"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/artesania-app/artesania-backend/pkg/pagination"
)

type stubProductsService struct {
	uploadedURL string
	uploadedKey []byte
	err         error
}

func (s *stubProductsService) Create(ctx context.Context, userID uuid.UUID, input productsvc.CreateInput) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) List(ctx context.Context, params pagination.Params, filters productsvc.ListFilters) (*productsvc.ProductList, error) {
	panic("not implemented")
}

func (s *stubProductsService) MyProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*productsvc.ProductList, error) {
	panic("not implemented")
}

func (s *stubProductsService) Update(ctx context.Context, userID, productID uuid.UUID, input productsvc.UpdateInput) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) UpdateStatus(ctx context.Context, userID, productID uuid.UUID, status enums.ProductStatus) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) IncreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) DecreaseStock(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubProductsService) AttachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error {
	panic("not implemented")
}

func (s *stubProductsService) DetachCategory(ctx context.Context, userID, productID, categoryID uuid.UUID) error {
	panic("not implemented")
}

func (s *stubProductsService) UploadImage(ctx context.Context, userID, productID uuid.UUID, data []byte) (string, error) {
	s.uploadedKey = data
	return s.uploadedURL, s.err
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "alebrije.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadProductImageReturnsURL(t *testing.T) {
	svc := &stubProductsService{uploadedURL: "https://storage.googleapis.com/artesania/products/abc.jpg"}
	handler := UploadProductImage(svc, config.UploadsConfig{MaxUploadMB: 5}, nil)

	content := []byte("fake jpeg bytes")
	body, contentType := multipartImage(t, "file", content)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/artisan/products/"+productID.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequest(req, uuid.New(), enums.UserRoleArtisan)
	req = withURLParam(req, "productId", productID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(svc.uploadedKey, content) {
		t.Fatalf("service received %q, want %q", svc.uploadedKey, content)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["url"] != svc.uploadedURL {
		t.Fatalf("unexpected url %q", envelope.Data["url"])
	}
}

func TestUploadProductImageRequiresFile(t *testing.T) {
	svc := &stubProductsService{}
	handler := UploadProductImage(svc, config.UploadsConfig{MaxUploadMB: 5}, nil)

	body, contentType := multipartImage(t, "attachment", []byte("wrong field"))

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/artisan/products/"+productID.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequest(req, uuid.New(), enums.UserRoleArtisan)
	req = withURLParam(req, "productId", productID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
