// Package client implements the HTTP status query against a payment terminal's local API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

const (
	apiKeyHeader         = "X-API-Key"
	maxResponseBodyBytes = 1 << 20

	notFoundErrorCode        = "TRANSACTION_NOT_FOUND"
	notFoundNumericErrorCode = 1404
)

// Config controls timeouts and per-terminal throttling.
type Config struct {
	// Timeout bounds a single status query. Zero disables the per-request timeout.
	Timeout time.Duration
	// RateLimit is the sustained queries per second allowed against one terminal.
	// Zero or negative means unlimited.
	RateLimit float64
	Burst     int
}

// StatusClient queries terminals for the status of a transaction they processed.
type StatusClient struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewStatusClient creates a StatusClient. A nil httpClient uses a default client.
func NewStatusClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *StatusClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &StatusClient{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
		limiters:   make(map[string]*rate.Limiter),
	}
}

// GetStatus asks the terminal described by conn for the status of terminalTransactionID.
//
// It returns terminalDomain.ErrTransactionNotFound when the terminal has no record of the
// transaction (HTTP 404 or a not-found error code in the body). Transport failures and 5xx
// responses are marked errors.ErrUnavailable, a rejected API key errors.ErrUnauthorized.
// Other non-2xx responses and malformed bodies are returned as generic errors.
func (c *StatusClient) GetStatus(
	ctx context.Context,
	conn *terminalDomain.Connection,
	terminalTransactionID string,
) (*terminalDomain.StatusResponse, error) {
	if err := c.limiter(conn.ID).Wait(ctx); err != nil {
		return nil, apperrors.Wrapf(err, "rate limit wait for terminal %s", conn.ID)
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	endpoint := conn.BaseURL() + "/api/transactions/" + url.PathEscape(terminalTransactionID) + "/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build terminal status request")
	}
	req.Header.Set(apiKeyHeader, conn.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Mark(err, apperrors.ErrUnavailable,
			fmt.Sprintf("terminal %s status request failed", conn.ID))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read terminal %s response", conn.ID)
	}

	if resp.StatusCode == http.StatusNotFound || hasNotFoundErrorCode(body) {
		return nil, terminalDomain.ErrTransactionNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.Debug("terminal returned error response",
				slog.String("terminal_id", conn.ID),
				slog.Int("status_code", resp.StatusCode),
				slog.String("body", truncate(string(body), 256)),
			)
		}
		return nil, classifyHTTPError(conn.ID, resp.StatusCode)
	}

	var status terminalDomain.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apperrors.Wrapf(err, "malformed status response from terminal %s", conn.ID)
	}
	if strings.TrimSpace(status.Status) == "" {
		return nil, fmt.Errorf("malformed status response from terminal %s: missing status", conn.ID)
	}
	status.Raw = json.RawMessage(body)

	return &status, nil
}

func (c *StatusClient) limiter(terminalID string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[terminalID]
	if !ok {
		limit := rate.Inf
		if c.config.RateLimit > 0 {
			limit = rate.Limit(c.config.RateLimit)
		}
		l = rate.NewLimiter(limit, c.config.Burst)
		c.limiters[terminalID] = l
	}
	return l
}

func classifyHTTPError(terminalID string, statusCode int) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("terminal %s rejected the api key (HTTP %d): %w",
			terminalID, statusCode, apperrors.ErrUnauthorized)
	case statusCode >= 500 || statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("terminal %s returned HTTP %d: %w", terminalID, statusCode, apperrors.ErrUnavailable)
	default:
		return fmt.Errorf("terminal %s returned HTTP %d", terminalID, statusCode)
	}
}

func hasNotFoundErrorCode(body []byte) bool {
	var payload struct {
		ErrorCode any `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}

	switch code := payload.ErrorCode.(type) {
	case string:
		return strings.EqualFold(code, notFoundErrorCode) || code == fmt.Sprint(notFoundNumericErrorCode)
	case float64:
		return code == notFoundNumericErrorCode
	default:
		return false
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
