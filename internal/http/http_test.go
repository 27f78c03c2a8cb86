package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/posrecovery/internal/clock"
	"github.com/allisson/posrecovery/internal/config"
	"github.com/allisson/posrecovery/internal/metrics"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	recoveryHTTP "github.com/allisson/posrecovery/internal/recovery/http"
	recoveryMocks "github.com/allisson/posrecovery/internal/recovery/usecase/mocks"
	terminalHTTP "github.com/allisson/posrecovery/internal/terminal/http"
	terminalMocks "github.com/allisson/posrecovery/internal/terminal/usecase/mocks"
	"github.com/allisson/posrecovery/internal/testutil"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestServer() *Server {
	return NewServer(nil, "localhost", 8080, testutil.NewDiscardLogger())
}

type routerMocks struct {
	reconciler *recoveryMocks.MockReconciler
	store      *recoveryMocks.MockPendingTransactionStore
	terminals  *terminalMocks.MockTerminalUseCase
}

func setupFullRouter(t *testing.T, server *Server, provider *metrics.Provider) *routerMocks {
	t.Helper()

	m := &routerMocks{
		reconciler: &recoveryMocks.MockReconciler{},
		store:      &recoveryMocks.MockPendingTransactionStore{},
		terminals:  &terminalMocks.MockTerminalUseCase{},
	}
	logger := testutil.NewDiscardLogger()
	recoveryHandler := recoveryHTTP.NewRecoveryHandler(
		m.reconciler,
		m.store,
		m.terminals,
		clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		logger,
	)
	terminalHandler := terminalHTTP.NewTerminalHandler(m.terminals, logger)

	cfg := &config.Config{CORSEnabled: true, CORSAllowOrigins: "https://backoffice.example.com"}
	server.SetupRouter(cfg, recoveryHandler, terminalHandler, provider)
	return m
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDB", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("Ready", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectPing()

		server := NewServer(db, "localhost", 8080, testutil.NewDiscardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(testutil.NewDiscardLogger()))
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get("X-Request-Id")
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err, "X-Request-Id should be a valid UUID")
	assert.NotEqual(t, uuid.Nil, parsed)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_Routes(t *testing.T) {
	server := createTestServer()
	m := setupFullRouter(t, server, nil)

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RecoveryRun", func(t *testing.T) {
		m.reconciler.On("RecoverPendingTransactions", mock.Anything).
			Return(recoveryDomain.NewRecoveryResult(), nil).
			Once()

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/recovery/run", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"summary"`)
		m.reconciler.AssertExpectations(t)
	})

	t.Run("ListPending", func(t *testing.T) {
		m.store.On("GetPendingTransactions", mock.Anything).
			Return([]*recoveryDomain.PendingTransaction{}, nil).
			Once()

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/recovery/pending", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("DeletePendingInvalidID", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/recovery/pending/nope", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("RegisterTerminalMalformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/terminals", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/recovery/run", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, "https://backoffice.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("NotFound", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NoMetricsEndpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_HTTPMetricsRecorded(t *testing.T) {
	provider, err := metrics.NewProvider("posrecovery_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server := createTestServer()
	setupFullRouter(t, server, provider)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	metricsServer := NewMetricsServer("localhost", 8081, testutil.NewDiscardLogger(), provider)
	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "posrecovery_test_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="unmatched"`)
}

func TestServer_StartRequiresRouter(t *testing.T) {
	server := createTestServer()
	err := server.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SetupRouter")
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "127.0.0.1", 0, testutil.NewDiscardLogger())
	setupFullRouter(t, server, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
