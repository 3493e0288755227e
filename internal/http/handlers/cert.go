package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/http/response"
	"github.com/yungbote/materialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type CertHandler struct {
	log   *logger.Logger
	certs services.CertService
}

func NewCertHandler(log *logger.Logger, certs services.CertService) *CertHandler {
	return &CertHandler{log: log.With("handler", "CertHandler"), certs: certs}
}

// POST /certs/:id/approve
func (h *CertHandler) Approve(c *gin.Context) {
	u := ctxutil.CurrentUser(c.Request.Context())
	view, err := h.certs.Approve(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"cert": view})
}
