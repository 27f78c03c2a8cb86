package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/clock"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// DefaultPollInterval is used when PollerConfig.Interval is not set.
const DefaultPollInterval = 3 * time.Second

// PollerConfig holds transaction poller configuration.
type PollerConfig struct {
	Interval time.Duration
	// MaxDuration bounds how long one transaction is polled. When it elapses the record is
	// left in the store for the next recovery pass. Zero means no limit.
	MaxDuration time.Duration
}

// TransactionPoller polls terminals for in-flight transactions until they reach a final
// status, then reconciles the ledger and removes them from the pending store.
type TransactionPoller struct {
	config    PollerConfig
	store     PendingTransactionStore
	terminals TerminalLookup
	client    StatusClient
	ledger    Ledger
	clock     clock.Clock
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[uuid.UUID]struct{}
	closed bool
}

// NewTransactionPoller creates a TransactionPoller.
func NewTransactionPoller(
	config PollerConfig,
	store PendingTransactionStore,
	terminals TerminalLookup,
	client StatusClient,
	ledger Ledger,
	clk clock.Clock,
	logger *slog.Logger,
) *TransactionPoller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TransactionPoller{
		config:    config,
		store:     store,
		terminals: terminals,
		client:    client,
		ledger:    ledger,
		clock:     clk,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		active:    make(map[uuid.UUID]struct{}),
	}
}

// StartPolling begins monitoring a transaction in the background. It is a no-op when the
// transaction is already being polled or the poller has been shut down.
func (p *TransactionPoller) StartPolling(
	posTransactionID uuid.UUID,
	terminalTransactionID string,
	terminal terminalDomain.Info,
) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		if p.logger != nil {
			p.logger.Warn("poller is shut down, transaction left for next recovery pass",
				slog.String("transaction_id", posTransactionID.String()))
		}
		return
	}
	if _, ok := p.active[posTransactionID]; ok {
		return
	}

	p.active[posTransactionID] = struct{}{}
	p.wg.Add(1)
	go p.poll(posTransactionID, terminalTransactionID, terminal)
}

// IsPolling reports whether posTransactionID is currently being polled.
func (p *TransactionPoller) IsPolling(posTransactionID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[posTransactionID]
	return ok
}

// ActiveCount returns the number of transactions currently being polled.
func (p *TransactionPoller) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Wait blocks until every started poll has finished.
func (p *TransactionPoller) Wait() {
	p.wg.Wait()
}

// Shutdown stops accepting new polls, cancels running ones and waits for them to exit.
func (p *TransactionPoller) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *TransactionPoller) poll(id uuid.UUID, terminalTransactionID string, terminal terminalDomain.Info) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.active, id)
		p.mu.Unlock()
	}()

	ctx := p.ctx
	if p.config.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.MaxDuration)
		defer cancel()
	}

	logger := p.logger
	if logger != nil {
		logger = logger.With(
			slog.String("transaction_id", id.String()),
			slog.String("terminal_id", terminal.ID),
			slog.String("terminal_transaction_id", terminalTransactionID),
		)
		logger.Info("starting transaction poller", slog.Duration("interval", p.config.Interval))
	}

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if logger != nil {
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					logger.Warn("poller reached max duration, transaction left for next recovery pass")
				} else {
					logger.Info("stopping transaction poller")
				}
			}
			return
		case <-ticker.C:
			if p.check(ctx, logger, id, terminalTransactionID, terminal) {
				return
			}
		}
	}
}

// check performs one status query and reports whether polling should stop.
func (p *TransactionPoller) check(
	ctx context.Context,
	logger *slog.Logger,
	id uuid.UUID,
	terminalTransactionID string,
	terminal terminalDomain.Info,
) bool {
	conn, err := p.terminals.Lookup(ctx, terminal.ID)
	if err != nil {
		if apperrors.Is(err, terminalDomain.ErrTerminalNotFound) {
			if logger != nil {
				logger.Warn("terminal no longer configured, transaction left for next recovery pass")
			}
			return true
		}
		if logger != nil {
			logger.Debug("failed to resolve terminal", slog.Any("error", err))
		}
		return false
	}

	resp, err := p.client.GetStatus(ctx, conn, terminalTransactionID)
	if err != nil {
		if apperrors.Is(err, terminalDomain.ErrTransactionNotFound) {
			if logger != nil {
				logger.Warn("terminal has no record of transaction, left for next recovery pass")
			}
			return true
		}
		if logger != nil {
			logger.Debug("terminal status query failed", slog.Any("error", err))
		}
		return false
	}

	pending, err := p.store.UpdatePolledStatus(ctx, id, resp.Status, p.clock.Now())
	if err != nil {
		if apperrors.Is(err, recoveryDomain.ErrPendingTransactionNotFound) {
			if logger != nil {
				logger.Info("transaction no longer pending, stopping poller")
			}
			return true
		}
		if logger != nil {
			logger.Error("failed to record polled status", slog.Any("error", err))
		}
		return false
	}

	status := recoveryDomain.ParseStatus(resp.Status)
	switch {
	case status.InFlight():
		return false
	case status == recoveryDomain.StatusCompleted:
		err = p.ledger.FinalizeTransaction(ctx, pending, resp)
	case status == recoveryDomain.StatusFailed || status == recoveryDomain.StatusCancelled:
		err = p.ledger.MarkTransactionAsFailed(ctx, pending, resp)
	default:
		if logger != nil {
			logger.Warn("terminal reported unknown status, transaction left for next recovery pass",
				slog.String("status", resp.Status))
		}
		return true
	}
	if err != nil {
		if logger != nil {
			logger.Error("failed to reconcile ledger", slog.String("status", resp.Status), slog.Any("error", err))
		}
		return false
	}

	if err := p.store.RemovePendingTransaction(ctx, id); err != nil {
		if logger != nil {
			logger.Error("failed to remove resolved transaction", slog.Any("error", err))
		}
		return false
	}

	if logger != nil {
		logger.Info("transaction resolved by poller", slog.String("status", resp.Status))
	}
	return true
}
