package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "github.com/artesania-app/artesania-backend/internal/auth"
	pkgerrors "github.com/artesania-app/artesania-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	result *authsvc.AuthResult
	err    error
}

func (s stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.AuthResult, error) {
	return s.result, s.err
}

func (s stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.AuthResult, error) {
	return s.result, s.err
}

func TestRegisterReturnsCreated(t *testing.T) {
	result := &authsvc.AuthResult{
		AccessToken: "token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		User:        authsvc.UserSummary{ID: uuid.New(), Name: "Maria", Email: "maria@example.com"},
	}
	handler := Register(stubAuthService{result: result}, nil)

	body := []byte(`{"name":"Maria","email":"maria@example.com","password":"secret-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token" || envelope.Data.TokenType != "Bearer" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := Register(stubAuthService{}, nil)

	body := []byte(`{"name":"Maria","email":"maria@example.com","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestLoginMapsUnauthorized(t *testing.T) {
	handler := Login(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	body := []byte(`{"email":"maria@example.com","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}
