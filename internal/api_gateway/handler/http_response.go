package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/middleware"
	"github.com/river-banking-ledger/internal/domain/shared"
)

// ErrorResponse is the body of every failed request. Error holds the numeric
// ledger error code.
type ErrorResponse struct {
	Error         int    `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// RespondAccepted sends a 202 Accepted response with data.
func RespondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// RespondWithError renders err with the status of its kind. Errors outside
// the ledger taxonomy, including broken internal contracts, are reported as
// Unknown without their details.
func RespondWithError(c *gin.Context, logger *slog.Logger, err error) {
	e := shared.AsError(err)
	message := e.Error()

	if e.Kind == shared.KindUnknown {
		logger.ErrorContext(c.Request.Context(), "Request failed", "error", err, "path", c.Request.URL.Path)
		message = middleware.UnknownErrorMessage
	} else {
		logger.InfoContext(c.Request.Context(), "Request rejected", "kind", e.Kind.String(), "reason", message)
	}

	c.JSON(e.Kind.HTTPStatus(), ErrorResponse{
		Error:         e.Kind.Code(),
		Message:       message,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// bindJSON decodes the body into req and validates it. On failure the error
// response has already been written.
func bindJSON(c *gin.Context, logger *slog.Logger, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondWithError(c, logger, shared.NewValidation("Invalid request body: "+err.Error()))
		return false
	}
	if err := req.Validate(); err != nil {
		RespondWithError(c, logger, err)
		return false
	}
	return true
}
