package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumen-backend/internal/http/response"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/services"
)

type QuotaHandler struct {
	quotaService services.QuotaService
}

func NewQuotaHandler(quotaService services.QuotaService) *QuotaHandler {
	return &QuotaHandler{quotaService: quotaService}
}

// GET /api/quota
func (qh *QuotaHandler) Check(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status, err := qh.quotaService.Check(dbctx.Context{Ctx: c.Request.Context()}, userID, 0)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"window_start": status.WindowStart,
		"window_end":   status.WindowEnd,
		"usage": gin.H{
			"images": status.ImageCount,
			"bytes":  status.ByteTotal,
		},
		"limits": status.Limits,
		"remaining": gin.H{
			"images": status.RemainingImages(),
			"bytes":  status.RemainingBytes(),
		},
	})
}
