package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/service"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens an account and answers 201 with its detail view.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	detail, err := h.accountService.CreateAccount(c.Request.Context(), *req.Holder, *req.Pin)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondCreated(c, detail)
}

// List returns every account.
func (h *AccountHandler) List(c *gin.Context) {
	details, err := h.accountService.GetAllAccounts(c.Request.Context())
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondOK(c, details)
}
