package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
)

const msgProfileUpdated = "Informações atualizadas com sucesso."

// profileFields maps the profile edit form keys onto customer columns.
// Every key must be posted; an empty value is stored as is.
var profileFields = []struct {
	key    string
	column string
}{
	{"edit-nome", "name"},
	{"edit-telefone", "phone"},
	{"edit-endereco", "address"},
	{"edit-email", "email"},
}

// GetProfile handles GET /meuperfil/
func (ctl *Controller) GetProfile(c *gin.Context) {
	customer, err := middleware.GetCustomer(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	renderPage(c, "meuperfil", customer)
}

// UpdateProfile handles POST /meuperfil/
func (ctl *Controller) UpdateProfile(c *gin.Context) {
	customer, err := middleware.GetCustomer(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	updates := make(map[string]any, len(profileFields))
	var missing []string
	for _, field := range profileFields {
		value, ok := c.GetPostForm(field.key)
		if !ok {
			missing = append(missing, field.key)
			continue
		}
		updates[field.column] = value
	}
	if len(missing) > 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing form fields: "+strings.Join(missing, ", "))
		return
	}
	err = ctl.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("cpf = ?", customer.CPF).
		Updates(updates).Error
	if err != nil {
		if utils.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "Another customer already uses this email")
			return
		}
		log.Printf("Failed to update customer %s: %v", customer.CPF, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile")
		return
	}

	redirectWithFlash(c, "/meuperfil/", msgProfileUpdated)
}
