package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

func newPending() *recoveryDomain.PendingTransaction {
	return &recoveryDomain.PendingTransaction{
		ID:                    uuid.Must(uuid.NewV7()),
		TerminalTransactionID: "T-0001",
		TerminalID:            "counter-1",
		Terminal: terminalDomain.Info{
			ID:           "counter-1",
			Address:      "10.0.0.5",
			Port:         8443,
			Capabilities: []string{terminalDomain.CapabilityTLS},
		},
		Amount:    decimal.RequireFromString("99.90"),
		Currency:  "USD",
		Status:    "processing",
		StartedAt: time.Date(2026, 3, 1, 11, 50, 0, 0, time.UTC),
	}
}

func TestMapPendingTransactionToResponse(t *testing.T) {
	pt := newPending()

	resp := MapPendingTransactionToResponse(pt)

	assert.Equal(t, pt.ID.String(), resp.ID)
	assert.Equal(t, "T-0001", resp.TerminalTransactionID)
	assert.Equal(t, "counter-1", resp.TerminalID)
	assert.Equal(t, "10.0.0.5", resp.Terminal.Address)
	assert.Equal(t, 8443, resp.Terminal.Port)
	assert.Equal(t, []string{"tls"}, resp.Terminal.Capabilities)
	assert.Equal(t, "99.9", resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "processing", resp.Status)
	assert.Nil(t, resp.LastPolledAt)
	assert.Empty(t, resp.ResolutionError)

	t.Run("WithResolutionError", func(t *testing.T) {
		pt := newPending()
		pt.ResolutionErr = errors.New("terminal configuration not found")
		resp := MapPendingTransactionToResponse(pt)
		assert.Equal(t, "terminal configuration not found", resp.ResolutionError)
	})
}

func TestMapRecoveryResultToResponse(t *testing.T) {
	result := recoveryDomain.NewRecoveryResult()
	recovered := newPending()
	failed := newPending()
	orphaned := newPending()
	result.Recovered = append(result.Recovered, recovered)
	result.Failed = append(result.Failed, recoveryDomain.FailedTransaction{
		Transaction: failed,
		Reason:      "connection refused",
		Retained:    true,
	})
	result.Orphaned = append(result.Orphaned, orphaned)

	resp := MapRecoveryResultToResponse(result)

	assert.Equal(t, RecoverySummary{Total: 3, Recovered: 1, Failed: 1, Orphaned: 1}, resp.Summary)
	require.Len(t, resp.Recovered, 1)
	assert.Equal(t, recovered.ID.String(), resp.Recovered[0].ID)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, failed.ID.String(), resp.Failed[0].Transaction.ID)
	assert.Equal(t, "connection refused", resp.Failed[0].Reason)
	assert.True(t, resp.Failed[0].Retained)
	require.Len(t, resp.Orphaned, 1)
	assert.Equal(t, orphaned.ID.String(), resp.Orphaned[0].ID)

	t.Run("EmptyListsAreNotNil", func(t *testing.T) {
		resp := MapRecoveryResultToResponse(recoveryDomain.NewRecoveryResult())
		assert.NotNil(t, resp.Recovered)
		assert.NotNil(t, resp.Failed)
		assert.NotNil(t, resp.Orphaned)
		assert.Equal(t, 0, resp.Summary.Total)
	})
}
