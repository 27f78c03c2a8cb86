// Package mocks provides mock implementations of the recovery use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// MockPendingTransactionPersistence is a mock implementation of PendingTransactionPersistence.
type MockPendingTransactionPersistence struct {
	mock.Mock
}

// GetSetting mocks the GetSetting method.
func (m *MockPendingTransactionPersistence) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// SetSetting mocks the SetSetting method.
func (m *MockPendingTransactionPersistence) SetSetting(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// DeleteSetting mocks the DeleteSetting method.
func (m *MockPendingTransactionPersistence) DeleteSetting(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockTerminalLookup is a mock implementation of TerminalLookup.
type MockTerminalLookup struct {
	mock.Mock
}

// Lookup mocks the Lookup method.
func (m *MockTerminalLookup) Lookup(ctx context.Context, id string) (*terminalDomain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*terminalDomain.Connection), args.Error(1)
}

// MockStatusClient is a mock implementation of StatusClient.
type MockStatusClient struct {
	mock.Mock
}

// GetStatus mocks the GetStatus method.
func (m *MockStatusClient) GetStatus(
	ctx context.Context,
	conn *terminalDomain.Connection,
	terminalTransactionID string,
) (*terminalDomain.StatusResponse, error) {
	args := m.Called(ctx, conn, terminalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*terminalDomain.StatusResponse), args.Error(1)
}

// MockLedger is a mock implementation of Ledger.
type MockLedger struct {
	mock.Mock
}

// FinalizeTransaction mocks the FinalizeTransaction method.
func (m *MockLedger) FinalizeTransaction(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
	response *terminalDomain.StatusResponse,
) error {
	args := m.Called(ctx, pending, response)
	return args.Error(0)
}

// MarkTransactionAsFailed mocks the MarkTransactionAsFailed method.
func (m *MockLedger) MarkTransactionAsFailed(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
	response *terminalDomain.StatusResponse,
) error {
	args := m.Called(ctx, pending, response)
	return args.Error(0)
}

// MockPoller is a mock implementation of Poller.
type MockPoller struct {
	mock.Mock
}

// StartPolling mocks the StartPolling method.
func (m *MockPoller) StartPolling(
	posTransactionID uuid.UUID,
	terminalTransactionID string,
	terminal terminalDomain.Info,
) {
	m.Called(posTransactionID, terminalTransactionID, terminal)
}

// IsPolling mocks the IsPolling method.
func (m *MockPoller) IsPolling(posTransactionID uuid.UUID) bool {
	args := m.Called(posTransactionID)
	return args.Bool(0)
}

// MockPendingTransactionStore is a mock implementation of PendingTransactionStore.
type MockPendingTransactionStore struct {
	mock.Mock
}

// Store mocks the Store method.
func (m *MockPendingTransactionStore) Store(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

// GetPendingTransactions mocks the GetPendingTransactions method.
func (m *MockPendingTransactionStore) GetPendingTransactions(
	ctx context.Context,
) ([]*recoveryDomain.PendingTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recoveryDomain.PendingTransaction), args.Error(1)
}

// RemovePendingTransaction mocks the RemovePendingTransaction method.
func (m *MockPendingTransactionStore) RemovePendingTransaction(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// UpdatePolledStatus mocks the UpdatePolledStatus method.
func (m *MockPendingTransactionStore) UpdatePolledStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	polledAt time.Time,
) (*recoveryDomain.PendingTransaction, error) {
	args := m.Called(ctx, id, status, polledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recoveryDomain.PendingTransaction), args.Error(1)
}

// MockReconciler is a mock implementation of Reconciler.
type MockReconciler struct {
	mock.Mock
}

// RecoverPendingTransactions mocks the RecoverPendingTransactions method.
func (m *MockReconciler) RecoverPendingTransactions(
	ctx context.Context,
) (*recoveryDomain.RecoveryResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recoveryDomain.RecoveryResult), args.Error(1)
}
