package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
)

// Index handles GET / - the site starts at the login page
func (ctl *Controller) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Page renders a page that needs no data
func (ctl *Controller) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderPage(c, name, nil)
	}
}

// Menu handles GET /cardapio/ - every menu section and product
func (ctl *Controller) Menu(c *gin.Context) {
	db := ctl.db.WithContext(c.Request.Context())

	sections := []models.MenuSection{}
	if err := db.Order("id").Find(&sections).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load the menu")
		return
	}

	products := []models.Product{}
	if err := db.Order("id").Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load the menu")
		return
	}

	for i := range products {
		ctl.populateImageURL(c, &products[i])
	}

	renderPage(c, "cardapio", gin.H{
		"sections": sections,
		"products": products,
	})
}

// populateImageURL fills the computed image URL. A storage failure leaves
// the field empty rather than failing the page.
func (ctl *Controller) populateImageURL(c *gin.Context, product *models.Product) {
	if product.ImageKey == nil || *product.ImageKey == "" {
		return
	}
	url, err := ctl.images.GetImageURL(c.Request.Context(), *product.ImageKey)
	if err != nil {
		log.Printf("Failed to build image URL for product %d: %v", product.ID, err)
		return
	}
	product.ImageURL = &url
}
