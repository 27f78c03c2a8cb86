package domain

import (
	"github.com/google/uuid"
)

// Disposition is the final classification of one recovery attempt.
type Disposition string

const (
	// DispositionRecovered means the transaction was finalized or handed back to active monitoring.
	DispositionRecovered Disposition = "recovered"
	// DispositionFailed means the payment definitely did not go through, is stale, or could not be checked.
	DispositionFailed Disposition = "failed"
	// DispositionOrphaned means the terminal has no record of the transaction.
	DispositionOrphaned Disposition = "orphaned"
)

// Failure reasons recorded in RecoveryResult.
const (
	ReasonStale                 = "stale"
	ReasonUnknownStatus         = "unknown status"
	ReasonTerminalNotConfigured = "terminal configuration not found"
	ReasonRecoveryInProgress    = "recovery already in progress"
)

// FailedTransaction is a failed disposition with its reason. Retained is true when the
// record was left in the store to be retried by a later pass.
type FailedTransaction struct {
	Transaction *PendingTransaction
	Reason      string
	Retained    bool
}

// RecoveryResult summarises one reconciliation pass.
type RecoveryResult struct {
	Recovered []*PendingTransaction
	Failed    []FailedTransaction
	Orphaned  []*PendingTransaction
}

// NewRecoveryResult returns an empty result with non-nil lists.
func NewRecoveryResult() *RecoveryResult {
	return &RecoveryResult{
		Recovered: make([]*PendingTransaction, 0),
		Failed:    make([]FailedTransaction, 0),
		Orphaned:  make([]*PendingTransaction, 0),
	}
}

// Total returns the number of transactions that received a disposition.
func (r *RecoveryResult) Total() int {
	return len(r.Recovered) + len(r.Failed) + len(r.Orphaned)
}

// Counts returns the number of transactions per disposition.
func (r *RecoveryResult) Counts() map[Disposition]int {
	return map[Disposition]int{
		DispositionRecovered: len(r.Recovered),
		DispositionFailed:    len(r.Failed),
		DispositionOrphaned:  len(r.Orphaned),
	}
}

// Disposition returns the disposition assigned to id in this pass, if any.
func (r *RecoveryResult) Disposition(id uuid.UUID) (Disposition, bool) {
	for _, pt := range r.Recovered {
		if pt.ID == id {
			return DispositionRecovered, true
		}
	}
	for _, f := range r.Failed {
		if f.Transaction.ID == id {
			return DispositionFailed, true
		}
	}
	for _, pt := range r.Orphaned {
		if pt.ID == id {
			return DispositionOrphaned, true
		}
	}
	return "", false
}
