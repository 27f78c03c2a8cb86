package domain

import (
	"github.com/allisson/posrecovery/internal/errors"
)

// Terminal error definitions.
var (
	// ErrTerminalNotFound indicates no configuration exists for the terminal id.
	ErrTerminalNotFound = errors.Wrap(errors.ErrNotFound, "terminal configuration not found")

	// ErrTerminalAlreadyExists indicates a terminal with the same id is already registered.
	ErrTerminalAlreadyExists = errors.Wrap(errors.ErrConflict, "terminal already exists")

	// ErrTransactionNotFound indicates the terminal has no record of the transaction id.
	ErrTransactionNotFound = errors.Wrap(errors.ErrNotFound, "transaction not found on terminal")
)
