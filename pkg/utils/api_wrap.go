package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

// RespondWithStatus writes the success envelope with a caller chosen code,
// used for 410 reads that still carry the expired record.
func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	status := "success"
	if code >= http.StatusBadRequest {
		status = "error"
	}
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var providerErr *ProviderError

	switch {
	case errors.As(err, &validationErr):
		RespondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, ErrUnknownPackage):
		RespondError(c, http.StatusBadRequest, "Unknown package")
	case errors.Is(err, ErrContractNotFound):
		RespondError(c, http.StatusNotFound, "Contract not found")
	case errors.Is(err, ErrContractExpired):
		RespondError(c, http.StatusGone, "This contract link has expired")
	case errors.Is(err, ErrAlreadyPaid):
		RespondError(c, http.StatusConflict, "Contract is already paid")
	case errors.As(err, &providerErr) && errors.Is(err, ErrPaymentInit):
		RespondError(c, http.StatusBadRequest, "Card payment is unavailable, please use bank transfer: "+providerErr.Message)
	case errors.Is(err, ErrPaymentInit):
		RespondError(c, http.StatusBadRequest, "Card payment is unavailable, please use bank transfer")
	case errors.Is(err, ErrAssetUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "File uploads are unavailable, please share a link instead")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, ErrTooManyAttempts):
		RespondError(c, http.StatusTooManyRequests, "Too many failed attempts, try again later")
	case errors.Is(err, ErrDatabaseError):
		slog.Error("database error", "error", err, "trace_id", traceID(c))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		slog.Error("unhandled service error", "error", err, "trace_id", traceID(c))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
