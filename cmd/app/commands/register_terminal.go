package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
	"github.com/allisson/posrecovery/internal/terminal/http/dto"
	terminalUseCase "github.com/allisson/posrecovery/internal/terminal/usecase"
)

// RunRegisterTerminal registers a payment terminal. The API key is encrypted with the
// configured KMS key before it is stored and is never printed.
func RunRegisterTerminal(
	ctx context.Context,
	terminalUseCase terminalUseCase.TerminalUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input *terminalDomain.RegisterTerminalInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	term, err := terminalUseCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to register terminal: %w", err)
	}

	logger.Info("terminal registered",
		slog.String("terminal_id", term.ID),
		slog.String("address", term.Address),
		slog.Int("port", term.Port),
	)

	response := dto.MapTerminalToResponse(term)
	if format == "json" {
		return writeJSON(writer, response)
	}

	_, err = fmt.Fprintf(writer, "Terminal registered successfully\nID: %s\nName: %s\nURL: %s\n",
		response.ID, response.Name, response.BaseURL)
	if err != nil {
		return err
	}
	if len(response.Capabilities) > 0 {
		_, err = fmt.Fprintf(writer, "Capabilities: %s\n", strings.Join(response.Capabilities, ", "))
	}
	return err
}
