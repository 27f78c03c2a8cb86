// Package http provides HTTP handlers for pending transaction administration and recovery passes.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/clock"
	"github.com/allisson/posrecovery/internal/httputil"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	"github.com/allisson/posrecovery/internal/recovery/http/dto"
	recoveryUseCase "github.com/allisson/posrecovery/internal/recovery/usecase"
	customValidation "github.com/allisson/posrecovery/internal/validation"
)

// RecoveryHandler handles HTTP requests for the pending transaction store and recovery passes.
type RecoveryHandler struct {
	reconciler recoveryUseCase.Reconciler
	store      recoveryUseCase.PendingTransactionStore
	terminals  recoveryUseCase.TerminalLookup
	clock      clock.Clock
	logger     *slog.Logger
}

// NewRecoveryHandler creates a new recovery handler with required dependencies.
func NewRecoveryHandler(
	reconciler recoveryUseCase.Reconciler,
	store recoveryUseCase.PendingTransactionStore,
	terminals recoveryUseCase.TerminalLookup,
	clk clock.Clock,
	logger *slog.Logger,
) *RecoveryHandler {
	return &RecoveryHandler{
		reconciler: reconciler,
		store:      store,
		terminals:  terminals,
		clock:      clk,
		logger:     logger,
	}
}

// RunHandler runs one recovery pass over every pending transaction.
// POST /v1/recovery/run - Returns 200 OK with the per-disposition result.
func (h *RecoveryHandler) RunHandler(c *gin.Context) {
	result, err := h.reconciler.RecoverPendingTransactions(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecoveryResultToResponse(result))
}

// ListPendingHandler lists the pending transactions currently in the store.
// GET /v1/recovery/pending - Returns 200 OK.
func (h *RecoveryHandler) ListPendingHandler(c *gin.Context) {
	pending, err := h.store.GetPendingTransactions(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPendingTransactionsToListResponse(pending))
}

// CreatePendingHandler records a payment attempt before it is sent to the terminal.
// POST /v1/recovery/pending - Returns 201 Created with the stored record.
func (h *RecoveryHandler) CreatePendingHandler(c *gin.Context) {
	var req dto.CreatePendingTransactionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()

	// The snapshot stored with the record must come from a configured terminal
	conn, err := h.terminals.Lookup(ctx, req.TerminalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	startedAt := h.clock.Now()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	pending, err := recoveryDomain.NewPendingTransaction(
		req.TerminalTransactionID,
		conn.Info,
		req.Amount,
		req.Currency,
		startedAt,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.store.Store(ctx, pending); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPendingTransactionToResponse(pending))
}

// DeletePendingHandler removes a pending transaction. Removing an unknown id succeeds.
// DELETE /v1/recovery/pending/:id - Returns 204 No Content.
func (h *RecoveryHandler) DeletePendingHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid pending transaction ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.store.RemovePendingTransaction(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
