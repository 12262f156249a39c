package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumen-backend/internal/http/response"
	"github.com/yungbote/lumen-backend/internal/services"
)

type ImageHandler struct {
	imageService services.ImageService
	chainService services.VersionChainService
}

func NewImageHandler(imageService services.ImageService, chainService services.VersionChainService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		chainService: chainService,
	}
}

// POST /api/images
// multipart form, field "file"
func (ih *ImageHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New("multipart field 'file' is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	defer file.Close()

	img, err := ih.imageService.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"image": img})
}

// GET /api/images
func (ih *ImageHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	images, err := ih.imageService.List(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"images": images})
}

// GET /api/images/:id
func (ih *ImageHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	img, err := ih.imageService.Get(c.Request.Context(), userID, imageID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"image": img})
}

// GET /api/images/:id/history
func (ih *ImageHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	// Ownership check piggybacks on Get.
	if _, err := ih.imageService.Get(c.Request.Context(), userID, imageID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	versions, err := ih.chainService.History(c.Request.Context(), imageID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions})
}

// DELETE /api/images/:id
func (ih *ImageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ih.imageService.Delete(c.Request.Context(), userID, imageID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": imageID})
}
