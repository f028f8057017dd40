package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/service"
	"github.com/river-banking-ledger/internal/domain/shared"
)

const accountQueryParam = "account"

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// GetHistory serves GET /transactions?account=N.
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	raw, ok := c.GetQuery(accountQueryParam)
	if !ok || raw == "" {
		RespondWithError(c, h.logger, shared.NewMissingParam(accountQueryParam))
		return
	}

	accountNumber, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondWithError(c, h.logger, shared.NewInvalidField(accountQueryParam, raw))
		return
	}

	history, err := h.transactionService.GetHistory(c.Request.Context(), accountNumber)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondOK(c, history)
}

func (h *TransactionHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.transactionService.Deposit(c.Request.Context(), *req.AccountNumber, *req.Amount)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondCreated(c, view)
}

func (h *TransactionHandler) Withdraw(c *gin.Context) {
	var req WithdrawalRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.transactionService.Withdraw(c.Request.Context(), *req.AccountNumber, *req.Amount, *req.Pin)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondCreated(c, view)
}

// Transfer answers with the payer's outgoing view.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.transactionService.Transfer(c.Request.Context(), *req.PayerNumber, *req.PayeeNumber, *req.Amount, *req.Pin)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondCreated(c, view)
}
