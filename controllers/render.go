package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
)

// renderPage answers a page route with the page envelope. Pending flash
// messages are consumed and sent ahead of any extra messages.
func renderPage(c *gin.Context, page string, data any, extra ...string) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"page":     page,
		"messages": append(middleware.Flashes(c), extra...),
		"data":     data,
	})
}

// renderPageError re-renders a form page with an error, the way a site shows
// the message above the form it came from
func renderPageError(c *gin.Context, status int, page, code, message string) {
	c.JSON(status, gin.H{
		"success":  false,
		"page":     page,
		"messages": append(middleware.Flashes(c), message),
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// redirectWithFlash queues a message and redirects. The cookie must be saved
// before the redirect headers go out.
func redirectWithFlash(c *gin.Context, location, message string) {
	if err := middleware.AddFlash(c, message); err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session")
		return
	}
	c.Redirect(http.StatusFound, location)
}
