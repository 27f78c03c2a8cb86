package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/allisson/posrecovery/internal/errors"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// PendingTransactionsKey is the settings key holding the serialized pending set.
const PendingTransactionsKey = "pending_terminal_transactions"

// pendingRecord is the persisted form of a pending transaction. It has no field able to
// hold a credential.
type pendingRecord struct {
	ID                    uuid.UUID           `json:"id"`
	TerminalTransactionID string              `json:"terminalTransactionId"`
	TerminalID            string              `json:"terminalId"`
	Terminal              terminalDomain.Info `json:"terminal"`
	Amount                decimal.Decimal     `json:"amount"`
	Currency              string              `json:"currency"`
	Status                string              `json:"status"`
	StartedAt             time.Time           `json:"startedAt"`
	LastPolledAt          *time.Time          `json:"lastPolledAt,omitempty"`
}

func toRecord(p *recoveryDomain.PendingTransaction) pendingRecord {
	return pendingRecord{
		ID:                    p.ID,
		TerminalTransactionID: p.TerminalTransactionID,
		TerminalID:            p.TerminalID,
		Terminal:              p.Terminal,
		Amount:                p.Amount,
		Currency:              p.Currency,
		Status:                p.Status,
		StartedAt:             p.StartedAt.UTC(),
		LastPolledAt:          p.LastPolledAt,
	}
}

func (r pendingRecord) toDomain() *recoveryDomain.PendingTransaction {
	return &recoveryDomain.PendingTransaction{
		ID:                    r.ID,
		TerminalTransactionID: r.TerminalTransactionID,
		TerminalID:            r.TerminalID,
		Terminal:              r.Terminal,
		Amount:                r.Amount,
		Currency:              r.Currency,
		Status:                r.Status,
		StartedAt:             r.StartedAt,
		LastPolledAt:          r.LastPolledAt,
	}
}

type pendingTransactionStore struct {
	persistence PendingTransactionPersistence
	terminals   TerminalLookup
	logger      *slog.Logger

	// mu serialises read-modify-write cycles of the single settings key.
	mu sync.Mutex
}

func (s *pendingTransactionStore) Store(ctx context.Context, pending *recoveryDomain.PendingTransaction) error {
	if err := pending.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].ID != pending.ID {
			continue
		}
		if !records[i].toDomain().SameIdentity(pending) {
			return recoveryDomain.ErrImmutableField
		}
		records[i].Status = pending.Status
		records[i].LastPolledAt = pending.LastPolledAt
		found = true
		break
	}
	if !found {
		records = append(records, toRecord(pending))
	}

	return s.save(ctx, records)
}

func (s *pendingTransactionStore) GetPendingTransactions(
	ctx context.Context,
) ([]*recoveryDomain.PendingTransaction, error) {
	s.mu.Lock()
	records, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	type resolution struct {
		conn *terminalDomain.Connection
		err  error
	}
	resolved := make(map[string]resolution)

	pending := make([]*recoveryDomain.PendingTransaction, 0, len(records))
	for _, r := range records {
		pt := r.toDomain()

		res, ok := resolved[r.TerminalID]
		if !ok {
			conn, err := s.terminals.Lookup(ctx, r.TerminalID)
			res = resolution{conn: conn, err: err}
			resolved[r.TerminalID] = res
		}

		if res.err != nil {
			pt.ResolutionErr = res.err
			if s.logger != nil {
				s.logger.Warn("failed to resolve terminal for pending transaction",
					slog.String("transaction_id", pt.ID.String()),
					slog.String("terminal_id", pt.TerminalID),
					slog.Any("error", res.err),
				)
			}
		} else {
			pt.Connection = res.conn
			pt.Terminal = res.conn.Info
		}

		pending = append(pending, pt)
	}

	return pending, nil
}

func (s *pendingTransactionStore) RemovePendingTransaction(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}

	return s.save(ctx, kept)
}

func (s *pendingTransactionStore) UpdatePolledStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	polledAt time.Time,
) (*recoveryDomain.PendingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		polled := polledAt.UTC()
		records[i].Status = status
		records[i].LastPolledAt = &polled
		if err := s.save(ctx, records); err != nil {
			return nil, err
		}
		return records[i].toDomain(), nil
	}

	return nil, recoveryDomain.ErrPendingTransactionNotFound
}

func (s *pendingTransactionStore) load(ctx context.Context) ([]pendingRecord, error) {
	value, err := s.persistence.GetSetting(ctx, PendingTransactionsKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to read pending transactions")
	}
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var records []pendingRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode pending transactions")
	}
	return records, nil
}

// save rewrites the whole collection. An empty collection deletes the key.
func (s *pendingTransactionStore) save(ctx context.Context, records []pendingRecord) error {
	if len(records) == 0 {
		if err := s.persistence.DeleteSetting(ctx, PendingTransactionsKey); err != nil {
			return apperrors.Wrap(err, "failed to delete pending transactions")
		}
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode pending transactions")
	}
	if err := s.persistence.SetSetting(ctx, PendingTransactionsKey, string(data)); err != nil {
		return apperrors.Wrap(err, "failed to write pending transactions")
	}
	return nil
}

// NewPendingTransactionStore creates a PendingTransactionStore backed by persistence.
// terminals re-resolves connection details and credentials when records are loaded.
func NewPendingTransactionStore(
	persistence PendingTransactionPersistence,
	terminals TerminalLookup,
	logger *slog.Logger,
) PendingTransactionStore {
	return &pendingTransactionStore{
		persistence: persistence,
		terminals:   terminals,
		logger:      logger,
	}
}
