package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lumen-backend/internal/http/response"
	"github.com/yungbote/lumen-backend/internal/services"
)

type WatermarkHandler struct {
	watermarkService services.WatermarkService
}

func NewWatermarkHandler(watermarkService services.WatermarkService) *WatermarkHandler {
	return &WatermarkHandler{watermarkService: watermarkService}
}

// POST /api/images/:id/watermarks
// body: {"watermarkId": "..."}
func (wh *WatermarkHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		WatermarkID uuid.UUID `json:"watermarkId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if req.WatermarkID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New("watermarkId is required"))
		return
	}
	version, placements, err := wh.watermarkService.Apply(c.Request.Context(), userID, imageID, req.WatermarkID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"version": version, "watermarks": placements})
}

// GET /api/images/:id/watermarks
func (wh *WatermarkHandler) Latest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	version, placements, err := wh.watermarkService.Latest(c.Request.Context(), userID, imageID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version": version, "watermarks": placements})
}

// DELETE /api/images/:id/watermarks/:placementId
func (wh *WatermarkHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	placementID, ok := pathUUID(c, "placementId")
	if !ok {
		return
	}
	if err := wh.watermarkService.RemoveLatest(c.Request.Context(), userID, imageID, placementID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": placementID})
}

// POST /api/watermarks
func (wh *WatermarkHandler) CreatePreset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.CreateWatermarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	preset, err := wh.watermarkService.CreatePreset(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"watermark": preset})
}

// GET /api/watermarks
func (wh *WatermarkHandler) ListPresets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	presets, err := wh.watermarkService.ListPresets(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"watermarks": presets})
}

// DELETE /api/watermarks/:id
func (wh *WatermarkHandler) DeletePreset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	watermarkID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := wh.watermarkService.DeletePreset(c.Request.Context(), userID, watermarkID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": watermarkID})
}
