package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/middleware"
	"github.com/river-banking-ledger/internal/api_gateway/service"
	"github.com/river-banking-ledger/internal/domain/shared"
)

// CommandHandler accepts ledger commands for asynchronous processing
type CommandHandler struct {
	commandService service.CommandService
	logger         *slog.Logger
}

func NewCommandHandler(logger *slog.Logger, commandService service.CommandService) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
		logger:         logger,
	}
}

// Submit queues the command and answers 202. Validation happens before
// publishing, so a malformed command is rejected synchronously.
func (h *CommandHandler) Submit(c *gin.Context) {
	var cmd shared.TransactionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		RespondWithError(c, h.logger, shared.NewValidation("Invalid request body: "+err.Error()))
		return
	}
	cmd.CorrelationID = middleware.GetCorrelationID(c)

	accepted, err := h.commandService.SubmitCommand(c.Request.Context(), cmd)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondAccepted(c, CommandAcceptedResponse{
		RequestID: accepted.RequestID,
		Status:    commandStatusAccepted,
	})
}
