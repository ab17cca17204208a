package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"gorm.io/gorm"
)

// UploadProductImage handles POST /admin/api/products/:id/image - stores a
// new product image and drops the one it replaces
func (ctl *Controller) UploadProductImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}

	ctx := c.Request.Context()
	db := ctl.db.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load product")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "An image file is required in the 'image' field")
		return
	}

	imageKey, err := ctl.images.UploadImage(ctx, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		log.Printf("Failed to store product image: %v", err)
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store image")
		return
	}

	previous := product.ImageKey
	if err := db.Model(&product).Update("image_key", imageKey).Error; err != nil {
		ctl.deleteProductImage(c, &imageKey)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save product image")
		return
	}
	ctl.deleteProductImage(c, previous)

	product.ImageKey = &imageKey
	ctl.populateImageURL(c, &product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

func (ctl *Controller) deleteProductImage(c *gin.Context, imageKey *string) {
	if imageKey == nil || *imageKey == "" {
		return
	}
	if err := ctl.images.DeleteImage(c.Request.Context(), *imageKey); err != nil {
		log.Printf("Failed to delete product image %s: %v", *imageKey, err)
	}
}
