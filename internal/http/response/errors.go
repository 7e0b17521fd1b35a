package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
)

const internalMessage = "Internal server error."

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodePermissionDenied:
		return http.StatusForbidden
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes err using its code. Internal causes never reach
// the client.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	msg := internalMessage
	var aggErr *domainagg.Error
	if status != http.StatusInternalServerError && errors.As(err, &aggErr) && aggErr.Message != "" {
		msg = aggErr.Message
	}
	_ = c.Error(err)
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: string(code)}})
}

// RespondValidation reports a malformed request.
func RespondValidation(c *gin.Context, err error) {
	RespondError(c, http.StatusUnprocessableEntity, string(domainagg.CodeValidation), err)
}
