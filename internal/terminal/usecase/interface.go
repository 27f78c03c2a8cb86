// Package usecase implements terminal registration and the live configuration lookup
// used to re-resolve credentials for pending transactions.
package usecase

import (
	"context"

	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// TerminalRepository defines terminal persistence operations.
type TerminalRepository interface {
	Create(ctx context.Context, term *terminalDomain.Terminal) error
	Get(ctx context.Context, id string) (*terminalDomain.Terminal, error)
	List(ctx context.Context) ([]*terminalDomain.Terminal, error)
}

// TerminalUseCase defines terminal configuration operations.
type TerminalUseCase interface {
	// Register validates input, encrypts the API key and persists the terminal.
	// The returned terminal never carries the plain API key.
	Register(ctx context.Context, input *terminalDomain.RegisterTerminalInput) (*terminalDomain.Terminal, error)

	// Lookup returns live connection details with the decrypted API key.
	// Returns terminalDomain.ErrTerminalNotFound when the terminal is no longer configured.
	Lookup(ctx context.Context, id string) (*terminalDomain.Connection, error)

	List(ctx context.Context) ([]*terminalDomain.Terminal, error)
}
