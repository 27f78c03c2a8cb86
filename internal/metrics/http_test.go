package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeasuredRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.POST("/v1/recovery/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"summary": gin.H{}})
	})
	router.DELETE("/v1/recovery/pending/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, provider
}

func serve(router http.Handler, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Run("records route pattern and status", func(t *testing.T) {
		router, provider := newMeasuredRouter(t)

		require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/v1/recovery/run"))
		require.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/v1/recovery/pending/0192a3b4-0000-7000-8000-000000000001"))
		require.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/v1/recovery/pending/0192a3b4-0000-7000-8000-000000000002"))

		body := scrape(t, provider)
		assertBizMetricLine(t, body, "test_app_http_requests_total", `method="POST"[^}]*route="/v1/recovery/run"`, "1")
		assertBizMetricLine(t, body, "test_app_http_requests_total", `route="/v1/recovery/pending/:id",status_code="204"`, "2")
		assert.NotContains(t, body, "0192a3b4")
		assert.Contains(t, body, "test_app_http_request_duration_seconds")
		assert.Contains(t, body, "test_app_http_requests_in_flight")
	})

	t.Run("unmatched routes share one label", func(t *testing.T) {
		router, provider := newMeasuredRouter(t)

		require.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/does-not-exist"))

		assert.Contains(t, scrape(t, provider), `route="unmatched",status_code="404"`)
	})

	t.Run("probes are not measured", func(t *testing.T) {
		router, provider := newMeasuredRouter(t)

		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
		}

		assert.NotContains(t, scrape(t, provider), `route="/health"`)
	})
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/recovery/pending/:id", routeLabel("/v1/recovery/pending/:id"))
	assert.Equal(t, "/", routeLabel("/"))
	assert.Equal(t, "unmatched", routeLabel(""))
}
