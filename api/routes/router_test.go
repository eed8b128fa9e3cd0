package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artesania-app/artesania-backend/pkg/auth"
	"github.com/artesania-app/artesania-backend/pkg/config"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/google/uuid"
)

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "artesania-test", ExpirationMinutes: 30}
	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: jwtCfg,
	}
	return NewRouter(Deps{Config: cfg}), jwtCfg
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Artesania-Env"); env != config.AppEnvDev {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRouteRejectsCustomer(t *testing.T) {
	router, jwtCfg := testRouter(t)
	token := mintToken(t, jwtCfg, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestArtisanRouteRejectsCustomer(t *testing.T) {
	router, jwtCfg := testRouter(t)
	token := mintToken(t, jwtCfg, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artisan/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
