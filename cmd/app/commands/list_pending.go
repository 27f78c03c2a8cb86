package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/allisson/posrecovery/internal/recovery/http/dto"
	recoveryUseCase "github.com/allisson/posrecovery/internal/recovery/usecase"
)

// RunListPending prints every transaction currently tracked in the pending store.
func RunListPending(
	ctx context.Context,
	store recoveryUseCase.PendingTransactionStore,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	pending, err := store.GetPendingTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending transactions: %w", err)
	}
	logger.Debug("listed pending transactions", slog.Int("count", len(pending)))

	response := dto.MapPendingTransactionsToListResponse(pending)
	if format == "json" {
		return writeJSON(writer, response)
	}

	if len(response.Data) == 0 {
		_, err := fmt.Fprintln(writer, "No pending transactions")
		return err
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTERMINAL\tTERMINAL TX\tAMOUNT\tSTATUS\tSTARTED AT\tNOTE")
	for _, pt := range response.Data {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\t%s\n",
			pt.ID, pt.TerminalID, pt.TerminalTransactionID, pt.Amount, pt.Currency,
			pt.Status, pt.StartedAt.Format("2006-01-02 15:04:05"), pt.ResolutionError)
	}
	return tw.Flush()
}
