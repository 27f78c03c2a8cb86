// Package mocks provides mock implementations of the ledger use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	ledgerDomain "github.com/allisson/posrecovery/internal/ledger/domain"
)

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

// UpdateStatus mocks the UpdateStatus method.
func (m *MockLedgerRepository) UpdateStatus(ctx context.Context, update *ledgerDomain.StatusUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// CreateEvent mocks the CreateEvent method.
func (m *MockLedgerRepository) CreateEvent(ctx context.Context, event *ledgerDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockTxManager is a mock implementation of database.TxManager that runs fn inline.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
