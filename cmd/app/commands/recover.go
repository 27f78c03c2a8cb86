package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	"github.com/allisson/posrecovery/internal/recovery/http/dto"
	recoveryUseCase "github.com/allisson/posrecovery/internal/recovery/usecase"
)

// PollWaiter is satisfied by the transaction poller. It lets the recover command block until
// every in-flight transaction handed off during the pass has been resolved or given up on.
type PollWaiter interface {
	ActiveCount() int
	Wait()
}

// RunRecover runs one reconciliation pass and prints its result.
//
// When wait is true and some transactions were handed to the poller, the command blocks
// until all of them stop being polled.
func RunRecover(
	ctx context.Context,
	reconciler recoveryUseCase.Reconciler,
	waiter PollWaiter,
	logger *slog.Logger,
	writer io.Writer,
	format string,
	wait bool,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("running recovery pass", slog.Bool("wait", wait))

	result, err := reconciler.RecoverPendingTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover pending transactions: %w", err)
	}

	if wait && waiter != nil {
		if active := waiter.ActiveCount(); active > 0 {
			logger.Info("waiting for in-flight transactions", slog.Int("active", active))
			waiter.Wait()
		}
	}

	if format == "json" {
		return writeJSON(writer, dto.MapRecoveryResultToResponse(result))
	}
	return outputRecoverText(writer, result)
}

func outputRecoverText(w io.Writer, result *recoveryDomain.RecoveryResult) error {
	_, err := fmt.Fprintf(w, "Recovery pass completed: %d total, %d recovered, %d failed, %d orphaned\n",
		result.Total(), len(result.Recovered), len(result.Failed), len(result.Orphaned))
	if err != nil {
		return err
	}

	for _, f := range result.Failed {
		state := "removed"
		if f.Retained {
			state = "retained"
		}
		_, err := fmt.Fprintf(w, "  failed   %s terminal=%s terminal_tx=%s (%s): %s\n",
			f.Transaction.ID, f.Transaction.TerminalID, f.Transaction.TerminalTransactionID, state, f.Reason)
		if err != nil {
			return err
		}
	}

	for _, pt := range result.Orphaned {
		_, err := fmt.Fprintf(w, "  orphaned %s terminal=%s terminal_tx=%s\n",
			pt.ID, pt.TerminalID, pt.TerminalTransactionID)
		if err != nil {
			return err
		}
	}
	return nil
}
