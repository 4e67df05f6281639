package handler

import (
	"net/http"

	"Doubts_Clearance/internal/storage"

	"github.com/gin-gonic/gin"
)

// 5 MiB per attachment.
const maxUploadSize = 5 << 20

type UploadHandler struct {
	store storage.AttachmentStore
}

func NewUploadHandler(store storage.AttachmentStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts a multipart image and returns the stored reference.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "file too large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.AllowedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "only image attachments are allowed"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "upload failed"})
		return
	}
	defer f.Close()

	ref, err := h.store.Save(c.Request.Context(), fileHeader.Filename, f, fileHeader.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": ref})
}
