package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/posrecovery/internal/clock"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// DefaultRecoveryWindow is the age after which a pending transaction is considered stale.
const DefaultRecoveryWindow = 30 * time.Minute

// ReconcilerConfig holds reconciler configuration.
type ReconcilerConfig struct {
	// RecoveryWindow is the staleness threshold. Transactions strictly older are not queried.
	RecoveryWindow time.Duration
	// Concurrency bounds how many transactions are recovered at once. 1 is sequential.
	Concurrency int
}

// outcome is the disposition decided for one transaction.
type outcome struct {
	pending     *recoveryDomain.PendingTransaction
	disposition recoveryDomain.Disposition
	reason      string
	retained    bool
}

type reconciler struct {
	config ReconcilerConfig
	store  PendingTransactionStore
	client StatusClient
	poller Poller
	ledger Ledger
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	claimed map[uuid.UUID]struct{}
}

func (r *reconciler) RecoverPendingTransactions(ctx context.Context) (*recoveryDomain.RecoveryResult, error) {
	start := r.clock.Now()

	pending, err := r.store.GetPendingTransactions(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load pending transactions")
	}

	// The store keys by id, but never query or dispose of the same id twice in one pass.
	seen := make(map[uuid.UUID]struct{}, len(pending))
	unique := make([]*recoveryDomain.PendingTransaction, 0, len(pending))
	for _, pt := range pending {
		if _, dup := seen[pt.ID]; dup {
			continue
		}
		seen[pt.ID] = struct{}{}
		unique = append(unique, pt)
	}

	outcomes := make([]outcome, len(unique))
	if r.config.Concurrency <= 1 {
		for i, pt := range unique {
			outcomes[i] = r.recoverOne(ctx, pt, start)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.config.Concurrency)
		for i, pt := range unique {
			g.Go(func() error {
				outcomes[i] = r.recoverOne(ctx, pt, start)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := recoveryDomain.NewRecoveryResult()
	for _, o := range outcomes {
		switch o.disposition {
		case recoveryDomain.DispositionRecovered:
			result.Recovered = append(result.Recovered, o.pending)
		case recoveryDomain.DispositionOrphaned:
			result.Orphaned = append(result.Orphaned, o.pending)
		default:
			result.Failed = append(result.Failed, recoveryDomain.FailedTransaction{
				Transaction: o.pending,
				Reason:      o.reason,
				Retained:    o.retained,
			})
		}
	}

	if r.logger != nil {
		r.logger.Info("recovery pass completed",
			slog.Int("total", result.Total()),
			slog.Int("recovered", len(result.Recovered)),
			slog.Int("failed", len(result.Failed)),
			slog.Int("orphaned", len(result.Orphaned)),
			slog.Duration("duration", r.clock.Now().Sub(start)),
		)
	}

	return result, nil
}

// recoverOne decides the disposition of a single transaction. It never panics out.
func (r *reconciler) recoverOne(
	ctx context.Context,
	pt *recoveryDomain.PendingTransaction,
	now time.Time,
) (o outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			o = r.retain(pt, fmt.Sprintf("panic during recovery: %v", rec))
		}
	}()

	logger := r.transactionLogger(pt)

	// A transaction the poller owns is resolved by the poller alone.
	if r.poller.IsPolling(pt.ID) {
		if logger != nil {
			logger.Info("pending transaction already being polled, skipping")
		}
		return outcome{pending: pt, disposition: recoveryDomain.DispositionRecovered}
	}

	if !r.claim(pt.ID) {
		if logger != nil {
			logger.Warn("pending transaction is being recovered by a concurrent pass, retaining")
		}
		return r.retain(pt, recoveryDomain.ReasonRecoveryInProgress)
	}
	defer r.release(pt.ID)

	if age := pt.Age(now); age > r.config.RecoveryWindow {
		reason := fmt.Sprintf("%s: started %s ago, exceeds %s recovery window",
			recoveryDomain.ReasonStale, age.Truncate(time.Second), r.config.RecoveryWindow)
		if logger != nil {
			logger.Warn("stale pending transaction marked failed", slog.String("reason", reason))
		}
		return r.resolve(ctx, pt, recoveryDomain.DispositionFailed, reason)
	}

	if pt.ResolutionErr != nil {
		reason := recoveryDomain.ReasonTerminalNotConfigured
		if !apperrors.Is(pt.ResolutionErr, terminalDomain.ErrTerminalNotFound) {
			reason = "failed to resolve terminal: " + pt.ResolutionErr.Error()
		}
		if logger != nil {
			logger.Warn("terminal for pending transaction could not be resolved, retaining",
				slog.String("reason", reason))
		}
		return r.retain(pt, reason)
	}

	resp, err := r.client.GetStatus(ctx, pt.Connection, pt.TerminalTransactionID)
	if err != nil {
		if apperrors.Is(err, terminalDomain.ErrTransactionNotFound) {
			if logger != nil {
				logger.Warn("terminal has no record of pending transaction, marking orphaned")
			}
			return r.resolve(ctx, pt, recoveryDomain.DispositionOrphaned, "")
		}
		if logger != nil {
			logger.Warn("terminal status query failed, retaining for next pass", slog.Any("error", err))
		}
		return r.retain(pt, err.Error())
	}

	status := recoveryDomain.ParseStatus(resp.Status)
	switch {
	case status.InFlight():
		if _, err := r.store.UpdatePolledStatus(ctx, pt.ID, resp.Status, now); err != nil && logger != nil {
			logger.Warn("failed to record polled status", slog.Any("error", err))
		}
		pt.Status = resp.Status
		r.poller.StartPolling(pt.ID, pt.TerminalTransactionID, pt.Terminal)
		if logger != nil {
			logger.Info("pending transaction still in flight, handed off to poller",
				slog.String("status", resp.Status))
		}
		return outcome{pending: pt, disposition: recoveryDomain.DispositionRecovered}

	case status == recoveryDomain.StatusCompleted:
		if err := r.ledger.FinalizeTransaction(ctx, pt, resp); err != nil {
			return r.retain(pt, "failed to finalize ledger transaction: "+err.Error())
		}
		pt.Status = resp.Status
		return r.resolve(ctx, pt, recoveryDomain.DispositionRecovered, "")

	case status == recoveryDomain.StatusFailed || status == recoveryDomain.StatusCancelled:
		if err := r.ledger.MarkTransactionAsFailed(ctx, pt, resp); err != nil {
			return r.retain(pt, "failed to mark ledger transaction as failed: "+err.Error())
		}
		pt.Status = resp.Status
		return r.resolve(ctx, pt, recoveryDomain.DispositionFailed, terminalReason(status, resp))

	default:
		reason := fmt.Sprintf("%s %q", recoveryDomain.ReasonUnknownStatus, resp.Status)
		if logger != nil {
			logger.Warn("terminal reported unknown status", slog.String("status", resp.Status))
		}
		pt.Status = resp.Status
		return r.resolve(ctx, pt, recoveryDomain.DispositionFailed, reason)
	}
}

// resolve removes the record and returns the disposition. A failed removal leaves the record
// in place and reports it as a retained failure so the next pass sees it again.
func (r *reconciler) resolve(
	ctx context.Context,
	pt *recoveryDomain.PendingTransaction,
	disposition recoveryDomain.Disposition,
	reason string,
) outcome {
	if err := r.store.RemovePendingTransaction(ctx, pt.ID); err != nil {
		msg := "failed to remove from store: " + err.Error()
		if reason != "" {
			msg = reason + "; " + msg
		}
		if logger := r.transactionLogger(pt); logger != nil {
			logger.Error("failed to remove resolved pending transaction",
				slog.String("disposition", string(disposition)),
				slog.Any("error", err),
			)
		}
		return r.retain(pt, msg)
	}
	return outcome{pending: pt, disposition: disposition, reason: reason}
}

// claim marks id as owned by the calling pass. It fails when another pass holds it.
func (r *reconciler) claim(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claimed[id]; ok {
		return false
	}
	r.claimed[id] = struct{}{}
	return true
}

func (r *reconciler) release(id uuid.UUID) {
	r.mu.Lock()
	delete(r.claimed, id)
	r.mu.Unlock()
}

func (r *reconciler) retain(pt *recoveryDomain.PendingTransaction, reason string) outcome {
	return outcome{
		pending:     pt,
		disposition: recoveryDomain.DispositionFailed,
		reason:      reason,
		retained:    true,
	}
}

func (r *reconciler) transactionLogger(pt *recoveryDomain.PendingTransaction) *slog.Logger {
	if r.logger == nil {
		return nil
	}
	return r.logger.With(
		slog.String("transaction_id", pt.ID.String()),
		slog.String("terminal_id", pt.TerminalID),
		slog.String("terminal_transaction_id", pt.TerminalTransactionID),
	)
}

func terminalReason(status recoveryDomain.Status, resp *terminalDomain.StatusResponse) string {
	reason := "terminal reported " + string(status)
	if resp.Message != "" {
		reason += ": " + resp.Message
	}
	return reason
}

// NewReconciler creates a Reconciler. A zero RecoveryWindow uses DefaultRecoveryWindow.
func NewReconciler(
	config ReconcilerConfig,
	store PendingTransactionStore,
	client StatusClient,
	poller Poller,
	ledger Ledger,
	clk clock.Clock,
	logger *slog.Logger,
) Reconciler {
	if config.RecoveryWindow <= 0 {
		config.RecoveryWindow = DefaultRecoveryWindow
	}
	return &reconciler{
		config:  config,
		store:   store,
		client:  client,
		poller:  poller,
		ledger:  ledger,
		clock:   clk,
		logger:  logger,
		claimed: make(map[uuid.UUID]struct{}),
	}
}
