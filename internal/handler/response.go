package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrdocs/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondFailure sends a failed envelope. Failures are reported in the body;
// the HTTP status stays 200.
func RespondFailure(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{Success: false, Error: msg})
}

// MapDomainError translates domain errors to client-facing messages.
// internal is true when the error is not one the client can act on.
func MapDomainError(err error) (msg string, internal bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized", false
	case errors.Is(err, domain.ErrNoFile):
		return "No file provided", false
	case errors.Is(err, domain.ErrFileTooLarge):
		return "File too large", false
	case errors.Is(err, domain.ErrInvalidDocumentID):
		return "Invalid document ID", false
	case errors.Is(err, domain.ErrDocumentNotFound):
		return "Document not found", false
	case errors.Is(err, domain.ErrNotAnalyzed):
		return "Document has not been analyzed", false
	case errors.Is(err, domain.ErrPersistFailed):
		return "Failed to save analysis", true
	case errors.Is(err, domain.ErrStorageFailed):
		return "Failed to fetch document from storage", true
	default:
		return "Internal server error", true
	}
}

// HandleError maps a domain error and sends the failure envelope. Internal
// errors are attached to the context so the request logger records them.
func HandleError(c *gin.Context, err error) {
	msg, internal := MapDomainError(err)
	if internal {
		_ = c.Error(err)
	}
	RespondFailure(c, msg)
}
