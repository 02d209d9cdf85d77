package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inscrevia/inscrevia/internal/gateway"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	"github.com/inscrevia/inscrevia/internal/reconciliation"
	"github.com/inscrevia/inscrevia/internal/recovery"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware renders the last handler error after the chain
// finishes, unless a handler already wrote a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "invalid request",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, recovery.ErrInvalidCPF):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrUnresolved),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, reconciliation.ErrOrderNotFound),
		errors.Is(err, registrationdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, recovery.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// errorOutcome labels a reconciliation error for metrics.
func errorOutcome(err error) string {
	switch {
	case errors.Is(err, tenantdomain.ErrUnresolved):
		return "tenant_unresolved"
	case errors.Is(err, reconciliation.ErrOrderNotFound):
		return "unmatched"
	case errors.Is(err, gateway.ErrUnavailable):
		return "gateway_error"
	case errors.Is(err, reconciliation.ErrStoreMutation):
		return "store_error"
	default:
		return "error"
	}
}
