package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if middleware != nil {
		router.Use(middleware)
	}
	router.POST("/v1/recovery/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(false, "https://backoffice.example.com", logger))
	})

	t.Run("enabled-without-origins", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "", logger))
	})

	t.Run("enabled-with-only-invalid-origins", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "*, ftp://files.example.com", logger))
	})

	t.Run("enabled", func(t *testing.T) {
		assert.NotNil(t, createCORSMiddleware(true, "https://backoffice.example.com", logger))
	})
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantOrigins  []string
		wantRejected []string
	}{
		{name: "empty", raw: ""},
		{
			name:        "trims whitespace and trailing slash",
			raw:         " https://backoffice.example.com/ , http://localhost:3000 ",
			wantOrigins: []string{"https://backoffice.example.com", "http://localhost:3000"},
		},
		{
			name:        "drops duplicates",
			raw:         "https://backoffice.example.com,https://backoffice.example.com",
			wantOrigins: []string{"https://backoffice.example.com"},
		},
		{
			name:         "rejects wildcard, paths and other schemes",
			raw:          "*,https://backoffice.example.com/console,ftp://files.example.com,https://ok.example.com",
			wantOrigins:  []string{"https://ok.example.com"},
			wantRejected: []string{"*", "https://backoffice.example.com/console", "ftp://files.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origins, rejected := parseOrigins(tt.raw)
			assert.Equal(t, tt.wantOrigins, origins)
			assert.Equal(t, tt.wantRejected, rejected)
		})
	}
}

func TestCORSIntegration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("allowed-origin", func(t *testing.T) {
		router := newCORSRouter(createCORSMiddleware(true, "https://backoffice.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/recovery/run", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://backoffice.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign-origin", func(t *testing.T) {
		router := newCORSRouter(createCORSMiddleware(true, "https://backoffice.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/recovery/run", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disabled", func(t *testing.T) {
		router := newCORSRouter(createCORSMiddleware(false, "https://backoffice.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/recovery/run", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		router := newCORSRouter(createCORSMiddleware(true, "https://backoffice.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/recovery/run", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})
}
