package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes err with the status of its kind. Server faults are
// logged with their cause and answered with a generic message.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	e := apierr.As(err)
	status := e.Status()
	if log != nil {
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", "op", e.Op, "kind", string(e.Kind), "error", err)
		default:
			log.Debug("request rejected", "op", e.Op, "kind", string(e.Kind), "error", err)
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: e.PublicMessage(),
			Code:    string(e.Kind),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondEmpty answers a successful delete.
func RespondEmpty(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
