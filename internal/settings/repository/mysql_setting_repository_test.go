package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/posrecovery/internal/clock"
	settingsDomain "github.com/allisson/posrecovery/internal/settings/domain"
	"github.com/allisson/posrecovery/internal/testutil"
)

func TestNewMySQLSettingRepository(t *testing.T) {
	db, _ := testutil.NewMockDB(t)

	repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))
	assert.NotNil(t, repo)
	assert.IsType(t, &MySQLSettingRepository{}, repo)
}

func TestMySQLSettingRepository_GetSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))

		mock.ExpectQuery(`SELECT setting_value FROM settings WHERE setting_key = \?`).
			WithArgs("key").
			WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("[]"))

		value, err := repo.GetSetting(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "[]", value)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))

		mock.ExpectQuery(`SELECT setting_value FROM settings`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"setting_value"}))

		_, err := repo.GetSetting(ctx, "missing")
		assert.ErrorIs(t, err, settingsDomain.ErrSettingNotFound)
	})
}

func TestMySQLSettingRepository_SetSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))

		mock.ExpectExec(`INSERT INTO settings .* ON DUPLICATE KEY UPDATE`).
			WithArgs("key", "value", settingUpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetSetting(ctx, "key", "value"))
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))

		mock.ExpectExec(`INSERT INTO settings`).
			WithArgs("key", "value", sqlmock.AnyArg()).
			WillReturnError(errors.New("read-only"))

		assert.ErrorContains(t, repo.SetSetting(ctx, "key", "value"), "failed to set setting")
	})
}

func TestMySQLSettingRepository_DeleteSetting(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLSettingRepository(db, clock.NewManual(settingUpdatedAt))

	mock.ExpectExec(`DELETE FROM settings WHERE setting_key = \?`).
		WithArgs("key").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteSetting(context.Background(), "key"))
}
