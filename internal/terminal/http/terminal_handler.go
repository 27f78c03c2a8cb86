// Package http provides HTTP handlers for terminal configuration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/posrecovery/internal/httputil"
	"github.com/allisson/posrecovery/internal/terminal/http/dto"
	terminalUseCase "github.com/allisson/posrecovery/internal/terminal/usecase"
)

// TerminalHandler handles HTTP requests for terminal configuration.
type TerminalHandler struct {
	terminalUseCase terminalUseCase.TerminalUseCase
	logger          *slog.Logger
}

// NewTerminalHandler creates a new terminal handler.
func NewTerminalHandler(terminalUseCase terminalUseCase.TerminalUseCase, logger *slog.Logger) *TerminalHandler {
	return &TerminalHandler{
		terminalUseCase: terminalUseCase,
		logger:          logger,
	}
}

// RegisterHandler registers a new terminal and stores its API key encrypted.
// POST /v1/terminals - Returns 201 Created.
func (h *TerminalHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterTerminalRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	term, err := h.terminalUseCase.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTerminalToResponse(term))
}

// ListHandler lists every configured terminal.
// GET /v1/terminals - Returns 200 OK.
func (h *TerminalHandler) ListHandler(c *gin.Context) {
	terms, err := h.terminalUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTerminalsToListResponse(terms))
}
