package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
	terminalMocks "github.com/allisson/posrecovery/internal/terminal/usecase/mocks"
)

func TestRunRegisterTerminal(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	input := &terminalDomain.RegisterTerminalInput{
		ID:           "lane-1",
		Name:         "Front lane",
		Address:      "10.0.0.5",
		Port:         8443,
		Capabilities: []string{terminalDomain.CapabilityTLS},
		APIKey:       "super-secret",
	}
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	registered := &terminalDomain.Terminal{
		ID:              "lane-1",
		Name:            "Front lane",
		Address:         "10.0.0.5",
		Port:            8443,
		Capabilities:    []string{terminalDomain.CapabilityTLS},
		EncryptedAPIKey: []byte("ciphertext"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	t.Run("text-output", func(t *testing.T) {
		uc := &terminalMocks.MockTerminalUseCase{}
		uc.On("Register", ctx, input).Return(registered, nil)

		var out bytes.Buffer
		err := RunRegisterTerminal(ctx, uc, logger, &out, input, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Terminal registered successfully")
		require.Contains(t, out.String(), "URL: https://10.0.0.5:8443")
		require.Contains(t, out.String(), "Capabilities: tls")
		require.NotContains(t, out.String(), "super-secret")
		uc.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		uc := &terminalMocks.MockTerminalUseCase{}
		uc.On("Register", ctx, input).Return(registered, nil)

		var out bytes.Buffer
		err := RunRegisterTerminal(ctx, uc, logger, &out, input, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"id": "lane-1"`)
		require.Contains(t, out.String(), `"base_url": "https://10.0.0.5:8443"`)
		require.NotContains(t, out.String(), "super-secret")
	})

	t.Run("use-case-error", func(t *testing.T) {
		uc := &terminalMocks.MockTerminalUseCase{}
		uc.On("Register", ctx, input).Return(nil, apperrors.ErrConflict)

		err := RunRegisterTerminal(ctx, uc, logger, &bytes.Buffer{}, input, "text")

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("invalid-format", func(t *testing.T) {
		uc := &terminalMocks.MockTerminalUseCase{}

		err := RunRegisterTerminal(ctx, uc, logger, &bytes.Buffer{}, input, "csv")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}
