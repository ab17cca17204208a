package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
)

// GetUploadedImage handles GET /uploads/:filename - serves product images
// stored on the local disk
func (ctl *Controller) GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Validate filename is not empty
	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType, ok := utils.ImageContentType(filename)
	if !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	filePath := filepath.Join(ctl.cfg.UploadDir, filename)

	// Check if file exists
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	// Serve the file with appropriate headers
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
