package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumen-backend/internal/domain/errs"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error onto the envelope using its
// classified code.
func RespondServiceError(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	RespondError(c, StatusForCode(code), string(code), err)
}

func StatusForCode(code errs.Code) int {
	switch code {
	case errs.CodeValidation:
		return http.StatusBadRequest
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeNoActiveSubscription:
		return http.StatusPaymentRequired
	case errs.CodeFilterNotAllowed, errs.CodeWatermarkNotAllowed:
		return http.StatusForbidden
	case errs.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case errs.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
