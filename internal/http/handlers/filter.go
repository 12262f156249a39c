package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumen-backend/internal/http/response"
	"github.com/yungbote/lumen-backend/internal/services"
)

type FilterHandler struct {
	filterService services.FilterService
}

func NewFilterHandler(filterService services.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

// GET /api/filters
func (fh *FilterHandler) Catalog(c *gin.Context) {
	filters, err := fh.filterService.Catalog(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"filters": filters})
}

// POST /api/images/:id/filters
// body: {"filterId": "...", "intensity": 80} — scalar, array, or the
// deprecated {"filters":[{"filterId":...,"intensity":...}]} form.
func (fh *FilterHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ApplyFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	version, links, err := fh.filterService.Apply(c.Request.Context(), userID, imageID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"version": version, "filters": links})
}

// GET /api/images/:id/filters
func (fh *FilterHandler) Latest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	version, links, err := fh.filterService.Latest(c.Request.Context(), userID, imageID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version": version, "filters": links})
}

// DELETE /api/images/:id/filters/:filterId
func (fh *FilterHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	filterID, ok := pathUUID(c, "filterId")
	if !ok {
		return
	}
	if err := fh.filterService.RemoveLatest(c.Request.Context(), userID, imageID, filterID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": filterID})
}
