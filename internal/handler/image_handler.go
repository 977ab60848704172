package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/service/image"
)

// ImageHandler adapts the image service to HTTP multipart uploads.
type ImageHandler struct {
	svc *image.Service
}

func NewImageHandler(svc *image.Service) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// UploadProfilePhoto handles POST /image/uploadProfilePhoto/:userID.
// Expects a single multipart file under the "image" field.
func (h *ImageHandler) UploadProfilePhoto(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		Respond(c, http.StatusBadRequest, "Image file is required")
		return
	}

	result, err := h.svc.UploadProfilePhoto(c.Request.Context(), file, userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, result.Status, result.Message)
}

// Upload handles POST /image/upload/:userID.
// Expects multipart files under the "images" field; replies with the
// ordered per-file result list. Files fail independently.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		Respond(c, http.StatusBadRequest, "At least one image file is required")
		return
	}

	results, err := h.svc.UploadImages(c.Request.Context(), form.File["images"], userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ImagesByUser handles GET /image/getImagesByUserId/:userId.
func (h *ImageHandler) ImagesByUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	images, err := h.svc.ImagesByUser(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// ProfilePhotoByUser handles GET /image/getProfilePhotoByUserId/:userId.
func (h *ImageHandler) ProfilePhotoByUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	photo, err := h.svc.ProfilePhotoByUser(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}
