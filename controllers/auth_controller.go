package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"gorm.io/gorm"
)

const (
	msgRegistered         = "Cadastro realizado com sucesso! Faça o login para continuar."
	msgLoggedIn           = "Login bem-sucedido!"
	msgInvalidCredentials = "Credenciais inválidas. Verifique seu email e senha."
)

// RegisterForm is the registration form
type RegisterForm struct {
	FullName string `form:"fullName" binding:"required"`
	CPF      string `form:"cpf" binding:"required,max=14"`
	Password string `form:"password" binding:"required,max=72"`
	Phone    string `form:"phone" binding:"required"`
	Address  string `form:"address" binding:"required"`
	Email    string `form:"email" binding:"required"`
}

// LoginForm is the login form
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Register handles POST /cadastro/ - creates a customer and sends them to the login page
func (ctl *Controller) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, err)
		return
	}

	customer := models.Customer{
		CPF:      form.CPF,
		Name:     form.FullName,
		Phone:    form.Phone,
		Address:  form.Address,
		Email:    form.Email,
		Password: form.Password,
	}

	if err := ctl.db.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "CUSTOMER_EXISTS", "A customer with this CPF or email already exists")
			return
		}
		log.Printf("Failed to create customer: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer")
		return
	}

	redirectWithFlash(c, middleware.LoginPath, msgRegistered)
}

// Login handles POST /login/ - checks credentials and starts a session
func (ctl *Controller) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, err)
		return
	}

	var customer models.Customer
	err := ctl.db.WithContext(c.Request.Context()).Where("email = ?", form.Email).First(&customer).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to look up customer: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to log in")
		return
	}

	// Unknown email and wrong password look the same to the caller
	if err != nil || !utils.CheckPassword(customer.PasswordHash, form.Password) {
		renderPageError(c, http.StatusUnauthorized, "login", "INVALID_CREDENTIALS", msgInvalidCredentials)
		return
	}

	session, err := ctl.sessions.Create(c.Request.Context(), customer.CPF)
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to log in")
		return
	}

	if err := middleware.SetSessionToken(c, session.Token); err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session")
		return
	}

	redirectWithFlash(c, "/home/", msgLoggedIn)
}

// Logout handles /sair/ - revokes the current session
func (ctl *Controller) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := ctl.sessions.Revoke(c.Request.Context(), token); err != nil {
			log.Printf("Failed to revoke session: %v", err)
		}
	}
	if err := middleware.ClearSessionToken(c); err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session")
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
