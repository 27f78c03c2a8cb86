// Package repository implements terminal configuration persistence for PostgreSQL and MySQL.
//
// Terminal ids are operator-assigned strings, so both databases store them as plain text
// keys. Capabilities are kept as a JSON array and API keys are only ever persisted in
// their KMS-encrypted form.
package repository

import (
	"encoding/json"
	"time"

	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

const terminalColumns = `id, name, address, port, capabilities, encrypted_api_key, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeCapabilities(capabilities []string) (string, error) {
	if capabilities == nil {
		capabilities = []string{}
	}
	data, err := json.Marshal(capabilities)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode terminal capabilities")
	}
	return string(data), nil
}

func scanTerminal(row rowScanner) (*terminalDomain.Terminal, error) {
	var (
		term         terminalDomain.Terminal
		capabilities string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&term.ID,
		&term.Name,
		&term.Address,
		&term.Port,
		&capabilities,
		&term.EncryptedAPIKey,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if capabilities != "" {
		if err := json.Unmarshal([]byte(capabilities), &term.Capabilities); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode terminal capabilities")
		}
	}
	term.CreatedAt = createdAt.UTC()
	term.UpdatedAt = updatedAt.UTC()

	return &term, nil
}
