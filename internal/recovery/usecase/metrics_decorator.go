package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/metrics"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
)

// reconcilerWithMetrics decorates Reconciler with metrics instrumentation.
type reconcilerWithMetrics struct {
	next    Reconciler
	metrics metrics.BusinessMetrics
}

// NewReconcilerWithMetrics wraps a Reconciler with metrics recording.
func NewReconcilerWithMetrics(reconciler Reconciler, m metrics.BusinessMetrics) Reconciler {
	return &reconcilerWithMetrics{
		next:    reconciler,
		metrics: m,
	}
}

// RecoverPendingTransactions records pass outcome, duration and per-disposition counts.
func (r *reconcilerWithMetrics) RecoverPendingTransactions(
	ctx context.Context,
) (*recoveryDomain.RecoveryResult, error) {
	start := time.Now()
	result, err := r.next.RecoverPendingTransactions(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "recovery", "recover_pending_transactions", status)
	r.metrics.RecordDuration(ctx, "recovery", "recover_pending_transactions", time.Since(start), status)

	if result != nil {
		for disposition, count := range result.Counts() {
			r.metrics.RecordDisposition(ctx, string(disposition), count)
		}
	}

	return result, err
}

// pendingStoreWithMetrics decorates PendingTransactionStore with metrics instrumentation.
type pendingStoreWithMetrics struct {
	next    PendingTransactionStore
	metrics metrics.BusinessMetrics
}

// NewPendingTransactionStoreWithMetrics wraps a PendingTransactionStore with metrics recording.
func NewPendingTransactionStoreWithMetrics(
	store PendingTransactionStore,
	m metrics.BusinessMetrics,
) PendingTransactionStore {
	return &pendingStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (s *pendingStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "recovery", operation, status)
	s.metrics.RecordDuration(ctx, "recovery", operation, time.Since(start), status)
}

// Store records metrics for pending transaction upserts.
func (s *pendingStoreWithMetrics) Store(ctx context.Context, pending *recoveryDomain.PendingTransaction) error {
	start := time.Now()
	err := s.next.Store(ctx, pending)
	s.record(ctx, "pending_store", start, err)
	return err
}

// GetPendingTransactions records metrics for pending transaction listing.
func (s *pendingStoreWithMetrics) GetPendingTransactions(
	ctx context.Context,
) ([]*recoveryDomain.PendingTransaction, error) {
	start := time.Now()
	pending, err := s.next.GetPendingTransactions(ctx)
	s.record(ctx, "pending_list", start, err)
	return pending, err
}

// RemovePendingTransaction records metrics for pending transaction removal.
func (s *pendingStoreWithMetrics) RemovePendingTransaction(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.next.RemovePendingTransaction(ctx, id)
	s.record(ctx, "pending_remove", start, err)
	return err
}

// UpdatePolledStatus records metrics for polled status updates.
func (s *pendingStoreWithMetrics) UpdatePolledStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	polledAt time.Time,
) (*recoveryDomain.PendingTransaction, error) {
	start := time.Now()
	pending, err := s.next.UpdatePolledStatus(ctx, id, status, polledAt)
	s.record(ctx, "pending_update_status", start, err)
	return pending, err
}
