// Package repository implements durable key-value setting persistence for PostgreSQL and MySQL.
//
// Both implementations are transaction-aware through database.GetTx and store every setting
// as one row keyed by setting_key. SetSetting is an upsert; DeleteSetting is idempotent.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/posrecovery/internal/clock"
	"github.com/allisson/posrecovery/internal/database"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	settingsDomain "github.com/allisson/posrecovery/internal/settings/domain"
)

// PostgreSQLSettingRepository implements setting persistence for PostgreSQL.
//
// Database schema requirements:
//   - setting_key: TEXT PRIMARY KEY
//   - setting_value: TEXT NOT NULL
//   - updated_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLSettingRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// GetSetting returns the value stored under key or settingsDomain.ErrSettingNotFound.
func (p *PostgreSQLSettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT setting_value FROM settings WHERE setting_key = $1`

	var value string
	err := querier.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", settingsDomain.ErrSettingNotFound
		}
		return "", apperrors.Wrap(err, "failed to get setting")
	}

	return value, nil
}

// SetSetting inserts or replaces the value stored under key.
func (p *PostgreSQLSettingRepository) SetSetting(ctx context.Context, key, value string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO settings (setting_key, setting_value, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (setting_key) DO UPDATE
			  SET setting_value = EXCLUDED.setting_value, updated_at = EXCLUDED.updated_at`

	if _, err := querier.ExecContext(ctx, query, key, value, p.clock.Now()); err != nil {
		return apperrors.Wrap(err, "failed to set setting")
	}

	return nil
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (p *PostgreSQLSettingRepository) DeleteSetting(ctx context.Context, key string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM settings WHERE setting_key = $1`

	if _, err := querier.ExecContext(ctx, query, key); err != nil {
		return apperrors.Wrap(err, "failed to delete setting")
	}

	return nil
}

// NewPostgreSQLSettingRepository creates a new PostgreSQL setting repository. updated_at is taken from clk.
func NewPostgreSQLSettingRepository(db *sql.DB, clk clock.Clock) *PostgreSQLSettingRepository {
	return &PostgreSQLSettingRepository{db: db, clock: clk}
}
