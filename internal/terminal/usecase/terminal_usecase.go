package usecase

import (
	"context"

	"github.com/allisson/posrecovery/internal/clock"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
	terminalService "github.com/allisson/posrecovery/internal/terminal/service"
)

type terminalUseCase struct {
	terminalRepo TerminalRepository
	keeper       terminalService.KMSKeeper
	clock        clock.Clock
}

func (t *terminalUseCase) Register(
	ctx context.Context,
	input *terminalDomain.RegisterTerminalInput,
) (*terminalDomain.Terminal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	encryptedAPIKey, err := t.keeper.Encrypt(ctx, []byte(input.APIKey))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt terminal api key")
	}

	now := t.clock.Now()
	term := &terminalDomain.Terminal{
		ID:              input.ID,
		Name:            input.Name,
		Address:         input.Address,
		Port:            input.Port,
		Capabilities:    input.Capabilities,
		EncryptedAPIKey: encryptedAPIKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := t.terminalRepo.Create(ctx, term); err != nil {
		return nil, err
	}

	return term, nil
}

func (t *terminalUseCase) Lookup(ctx context.Context, id string) (*terminalDomain.Connection, error) {
	term, err := t.terminalRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apiKey, err := t.keeper.Decrypt(ctx, term.EncryptedAPIKey)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to decrypt api key for terminal %s", id)
	}

	return &terminalDomain.Connection{
		Info:   term.Info(),
		Name:   term.Name,
		APIKey: string(apiKey),
	}, nil
}

func (t *terminalUseCase) List(ctx context.Context) ([]*terminalDomain.Terminal, error) {
	return t.terminalRepo.List(ctx)
}

// NewTerminalUseCase creates a TerminalUseCase. keeper protects API keys at rest.
func NewTerminalUseCase(
	terminalRepo TerminalRepository,
	keeper terminalService.KMSKeeper,
	clk clock.Clock,
) TerminalUseCase {
	return &terminalUseCase{
		terminalRepo: terminalRepo,
		keeper:       keeper,
		clock:        clk,
	}
}
