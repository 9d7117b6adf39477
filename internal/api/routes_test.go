package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/flickfog/internal/admin"
	"github.com/playmatatu/flickfog/internal/config"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := admin.HashAdminToken("letmein")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Environment: "development", FrontendURL: "http://localhost:5173", JWTSecret: "x", AdminTokenHash: hash}
	router := gin.New()
	SetupRoutes(router, nil, nil, cfg)

	cases := []struct {
		method, path, token string
		status              int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/board", "", http.StatusOK},
		{http.MethodGet, "/api/v1/admin/matches", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/config", "letmein", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, nil)
		if c.token != "" {
			req.Header.Set(admin.AdminTokenHeader, c.token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != c.status {
			t.Errorf("%s %s: expected %d, got %d", c.method, c.path, c.status, w.Code)
		}
	}
}

func TestDevelopmentDisablesCaching(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, nil, nil, &config.Config{Environment: "development"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	if got := w.Header().Get("Cache-Control"); got == "" {
		t.Error("expected no-cache headers outside production")
	}

	prod := gin.New()
	SetupRoutes(prod, nil, nil, &config.Config{Environment: "production", FrontendURL: "https://flickfog.example"})
	w = httptest.NewRecorder()
	prod.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("production should not force no-cache, got %q", got)
	}
}
