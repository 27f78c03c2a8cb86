// Package mocks provides mock implementations of the terminal use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// MockTerminalRepository is a mock implementation of TerminalRepository.
type MockTerminalRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTerminalRepository) Create(ctx context.Context, term *terminalDomain.Terminal) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockTerminalRepository) Get(ctx context.Context, id string) (*terminalDomain.Terminal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*terminalDomain.Terminal), args.Error(1)
}

// List mocks the List method.
func (m *MockTerminalRepository) List(ctx context.Context) ([]*terminalDomain.Terminal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*terminalDomain.Terminal), args.Error(1)
}

// MockKMSKeeper is a mock implementation of service.KMSKeeper.
type MockKMSKeeper struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method.
func (m *MockKMSKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTerminalUseCase is a mock implementation of TerminalUseCase.
type MockTerminalUseCase struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockTerminalUseCase) Register(
	ctx context.Context,
	input *terminalDomain.RegisterTerminalInput,
) (*terminalDomain.Terminal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*terminalDomain.Terminal), args.Error(1)
}

// Lookup mocks the Lookup method.
func (m *MockTerminalUseCase) Lookup(ctx context.Context, id string) (*terminalDomain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*terminalDomain.Connection), args.Error(1)
}

// List mocks the List method.
func (m *MockTerminalUseCase) List(ctx context.Context) ([]*terminalDomain.Terminal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*terminalDomain.Terminal), args.Error(1)
}
