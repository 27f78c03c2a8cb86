package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	recoveryMocks "github.com/allisson/posrecovery/internal/recovery/usecase/mocks"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

type fakeWaiter struct {
	active int
	waited bool
}

func (f *fakeWaiter) ActiveCount() int { return f.active }

func (f *fakeWaiter) Wait() { f.waited = true }

func newCommandPending(terminalTxID string) *recoveryDomain.PendingTransaction {
	return &recoveryDomain.PendingTransaction{
		ID:                    uuid.Must(uuid.NewV7()),
		TerminalTransactionID: terminalTxID,
		TerminalID:            "lane-1",
		Terminal:              terminalDomain.Info{ID: "lane-1", Address: "10.0.0.5", Port: 8443},
		Amount:                decimal.RequireFromString("12.50"),
		Currency:              "EUR",
		Status:                "pending",
		StartedAt:             time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func newCommandResult() *recoveryDomain.RecoveryResult {
	result := recoveryDomain.NewRecoveryResult()
	result.Recovered = append(result.Recovered, newCommandPending("t-1"))
	result.Failed = append(result.Failed, recoveryDomain.FailedTransaction{
		Transaction: newCommandPending("t-2"),
		Reason:      "terminal reported failed: card declined",
	})
	result.Failed = append(result.Failed, recoveryDomain.FailedTransaction{
		Transaction: newCommandPending("t-3"),
		Reason:      "connection refused",
		Retained:    true,
	})
	result.Orphaned = append(result.Orphaned, newCommandPending("t-4"))
	return result
}

func TestRunRecover(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}
		reconciler.On("RecoverPendingTransactions", ctx).Return(newCommandResult(), nil)

		var out bytes.Buffer
		err := RunRecover(ctx, reconciler, nil, logger, &out, "text", false)

		require.NoError(t, err)
		require.Contains(t, out.String(), "4 total, 1 recovered, 2 failed, 1 orphaned")
		require.Contains(t, out.String(), "terminal_tx=t-2 (removed): terminal reported failed: card declined")
		require.Contains(t, out.String(), "terminal_tx=t-3 (retained): connection refused")
		require.Contains(t, out.String(), "orphaned")
		require.Contains(t, out.String(), "terminal_tx=t-4")
		reconciler.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}
		reconciler.On("RecoverPendingTransactions", ctx).Return(newCommandResult(), nil)

		var out bytes.Buffer
		err := RunRecover(ctx, reconciler, nil, logger, &out, "json", false)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"total": 4`)
		require.Contains(t, out.String(), `"retained": true`)
		require.Contains(t, out.String(), `"terminal_transaction_id": "t-4"`)
		reconciler.AssertExpectations(t)
	})

	t.Run("wait-for-pollers", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}
		reconciler.On("RecoverPendingTransactions", ctx).Return(newCommandResult(), nil)
		waiter := &fakeWaiter{active: 1}

		err := RunRecover(ctx, reconciler, waiter, logger, &bytes.Buffer{}, "text", true)

		require.NoError(t, err)
		require.True(t, waiter.waited)
	})

	t.Run("no-wait-when-idle", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}
		reconciler.On("RecoverPendingTransactions", ctx).Return(recoveryDomain.NewRecoveryResult(), nil)
		waiter := &fakeWaiter{}

		var out bytes.Buffer
		err := RunRecover(ctx, reconciler, waiter, logger, &out, "text", true)

		require.NoError(t, err)
		require.False(t, waiter.waited)
		require.Contains(t, out.String(), "0 total")
	})

	t.Run("store-error", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}
		reconciler.On("RecoverPendingTransactions", ctx).Return(nil, errors.New("db down"))

		err := RunRecover(ctx, reconciler, nil, logger, &bytes.Buffer{}, "text", false)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to recover pending transactions")
	})

	t.Run("invalid-format", func(t *testing.T) {
		reconciler := &recoveryMocks.MockReconciler{}

		err := RunRecover(ctx, reconciler, nil, logger, &bytes.Buffer{}, "xml", false)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
		reconciler.AssertNotCalled(t, "RecoverPendingTransactions", ctx)
	})
}
