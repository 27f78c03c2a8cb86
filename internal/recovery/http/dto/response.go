package dto

import (
	"time"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
)

// TerminalResponse is the secret-free terminal snapshot of a pending transaction.
type TerminalResponse struct {
	ID           string   `json:"id"`
	Address      string   `json:"address"`
	Port         int      `json:"port"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// PendingTransactionResponse represents a pending transaction in API responses.
type PendingTransactionResponse struct {
	ID                    string           `json:"id"`
	TerminalTransactionID string           `json:"terminal_transaction_id"`
	TerminalID            string           `json:"terminal_id"`
	Terminal              TerminalResponse `json:"terminal"`
	Amount                string           `json:"amount"`
	Currency              string           `json:"currency"`
	Status                string           `json:"status"`
	StartedAt             time.Time        `json:"started_at"`
	LastPolledAt          *time.Time       `json:"last_polled_at,omitempty"`
	// ResolutionError is set when the terminal configuration could not be resolved.
	ResolutionError string `json:"resolution_error,omitempty"`
}

// MapPendingTransactionToResponse converts a domain pending transaction to an API response.
func MapPendingTransactionToResponse(pt *recoveryDomain.PendingTransaction) PendingTransactionResponse {
	resp := PendingTransactionResponse{
		ID:                    pt.ID.String(),
		TerminalTransactionID: pt.TerminalTransactionID,
		TerminalID:            pt.TerminalID,
		Terminal: TerminalResponse{
			ID:           pt.Terminal.ID,
			Address:      pt.Terminal.Address,
			Port:         pt.Terminal.Port,
			Capabilities: pt.Terminal.Capabilities,
		},
		Amount:       pt.Amount.String(),
		Currency:     pt.Currency,
		Status:       pt.Status,
		StartedAt:    pt.StartedAt,
		LastPolledAt: pt.LastPolledAt,
	}
	if pt.ResolutionErr != nil {
		resp.ResolutionError = pt.ResolutionErr.Error()
	}
	return resp
}

// ListPendingTransactionsResponse represents the pending transaction list in API responses.
type ListPendingTransactionsResponse struct {
	Data []PendingTransactionResponse `json:"data"`
}

// MapPendingTransactionsToListResponse converts domain pending transactions to a list response.
func MapPendingTransactionsToListResponse(
	pending []*recoveryDomain.PendingTransaction,
) ListPendingTransactionsResponse {
	data := make([]PendingTransactionResponse, 0, len(pending))
	for _, pt := range pending {
		data = append(data, MapPendingTransactionToResponse(pt))
	}
	return ListPendingTransactionsResponse{Data: data}
}

// FailedTransactionResponse is a failed disposition with its reason.
type FailedTransactionResponse struct {
	Transaction PendingTransactionResponse `json:"transaction"`
	Reason      string                     `json:"reason"`
	Retained    bool                       `json:"retained"`
}

// RecoverySummary holds per-disposition counts of a pass.
type RecoverySummary struct {
	Total     int `json:"total"`
	Recovered int `json:"recovered"`
	Failed    int `json:"failed"`
	Orphaned  int `json:"orphaned"`
}

// RecoveryResultResponse represents the outcome of one recovery pass.
type RecoveryResultResponse struct {
	Summary   RecoverySummary              `json:"summary"`
	Recovered []PendingTransactionResponse `json:"recovered"`
	Failed    []FailedTransactionResponse  `json:"failed"`
	Orphaned  []PendingTransactionResponse `json:"orphaned"`
}

// MapRecoveryResultToResponse converts a domain recovery result to an API response.
func MapRecoveryResultToResponse(result *recoveryDomain.RecoveryResult) RecoveryResultResponse {
	failed := make([]FailedTransactionResponse, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, FailedTransactionResponse{
			Transaction: MapPendingTransactionToResponse(f.Transaction),
			Reason:      f.Reason,
			Retained:    f.Retained,
		})
	}

	return RecoveryResultResponse{
		Summary: RecoverySummary{
			Total:     result.Total(),
			Recovered: len(result.Recovered),
			Failed:    len(result.Failed),
			Orphaned:  len(result.Orphaned),
		},
		Recovered: MapPendingTransactionsToListResponse(result.Recovered).Data,
		Failed:    failed,
		Orphaned:  MapPendingTransactionsToListResponse(result.Orphaned).Data,
	}
}
