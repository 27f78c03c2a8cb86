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

// MySQLSettingRepository implements setting persistence for MySQL.
//
// Database schema requirements:
//   - setting_key: VARCHAR(255) PRIMARY KEY
//   - setting_value: LONGTEXT NOT NULL
//   - updated_at: DATETIME(6)
type MySQLSettingRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// GetSetting returns the value stored under key or settingsDomain.ErrSettingNotFound.
func (m *MySQLSettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT setting_value FROM settings WHERE setting_key = ?`

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
func (m *MySQLSettingRepository) SetSetting(ctx context.Context, key, value string) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO settings (setting_key, setting_value, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value), updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, query, key, value, m.clock.Now()); err != nil {
		return apperrors.Wrap(err, "failed to set setting")
	}

	return nil
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (m *MySQLSettingRepository) DeleteSetting(ctx context.Context, key string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM settings WHERE setting_key = ?`

	if _, err := querier.ExecContext(ctx, query, key); err != nil {
		return apperrors.Wrap(err, "failed to delete setting")
	}

	return nil
}

// NewMySQLSettingRepository creates a new MySQL setting repository. updated_at is taken from clk.
func NewMySQLSettingRepository(db *sql.DB, clk clock.Clock) *MySQLSettingRepository {
	return &MySQLSettingRepository{db: db, clock: clk}
}
