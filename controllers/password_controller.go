package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"github.com/restaurante-kishimoto/kishimoto-web/utils"
	"gorm.io/gorm"
)

const (
	msgResetRequested   = "Se o email estiver cadastrado, você receberá um link para redefinir sua senha."
	msgPasswordMismatch = "As senhas não coincidem. Tente novamente."
	msgPasswordChanged  = "Senha alterada com sucesso. Faça o login com sua nova senha."
	msgInvalidResetLink = "Link de redefinição inválido ou expirado."
)

// ForgotPasswordForm asks for the email to send a reset link to
type ForgotPasswordForm struct {
	Email string `form:"email" binding:"required"`
}

// NewPasswordForm sets a new password. Token is empty when a logged-in
// customer changes their own password.
type NewPasswordForm struct {
	NewPassword     string `form:"novaSenha" binding:"required,max=72"`
	ConfirmPassword string `form:"confirmarSenha" binding:"required,max=72"`
	Token           string `form:"token"`
}

// RequestPasswordReset handles POST /esqueceu/. The answer is the same
// whether or not the email belongs to a customer.
func (ctl *Controller) RequestPasswordReset(c *gin.Context) {
	var form ForgotPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()

	var customer models.Customer
	err := ctl.db.WithContext(ctx).Where("email = ?", form.Email).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("Password reset requested for unknown email")
	case err != nil:
		log.Printf("Failed to look up customer for password reset: %v", err)
	default:
		ctl.sendResetLink(c, &customer)
	}

	renderPage(c, "esqueceu", nil, msgResetRequested)
}

func (ctl *Controller) sendResetLink(c *gin.Context, customer *models.Customer) {
	token, err := ctl.resets.Issue(customer)
	if err != nil {
		log.Printf("Failed to issue reset token: %v", err)
		return
	}

	link := ctl.cfg.PublicBaseURL + "/novasenha/?token=" + url.QueryEscape(token)
	if err := ctl.mailer.SendPasswordReset(c.Request.Context(), customer.Email, customer.Name, link); err != nil {
		log.Printf("Failed to send password reset email: %v", err)
	}
}

// NewPasswordPage handles GET /novasenha/
func (ctl *Controller) NewPasswordPage(c *gin.Context) {
	renderPage(c, "novasenha", gin.H{"token": c.Query("token")})
}

// SetNewPassword handles POST /novasenha/ - stores the new password hash and
// ends every session of the customer
func (ctl *Controller) SetNewPassword(c *gin.Context) {
	var form NewPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, err)
		return
	}
	if form.Token == "" {
		form.Token = c.Query("token")
	}

	if form.NewPassword != form.ConfirmPassword {
		renderPageError(c, http.StatusBadRequest, "novasenha", "PASSWORD_MISMATCH", msgPasswordMismatch)
		return
	}

	customer, err := ctl.resetTarget(c, form.Token)
	if err != nil {
		log.Printf("Rejected password change: %v", err)
		renderPageError(c, http.StatusBadRequest, "novasenha", "INVALID_RESET_TOKEN", msgInvalidResetLink)
		return
	}

	hash, err := utils.HashPassword(form.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password")
		return
	}

	ctx := c.Request.Context()
	if err := ctl.replacePasswordHash(ctx, customer, hash); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			log.Printf("Rejected password change: %v", err)
			renderPageError(c, http.StatusBadRequest, "novasenha", "INVALID_RESET_TOKEN", msgInvalidResetLink)
			return
		}
		log.Printf("Failed to store new password for %s: %v", customer.CPF, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to change password")
		return
	}

	if err := ctl.sessions.RevokeAll(ctx, customer.CPF); err != nil {
		log.Printf("Failed to revoke sessions after password change: %v", err)
	}
	if err := middleware.ClearSessionToken(c); err != nil {
		log.Printf("Failed to clear session cookie: %v", err)
	}

	redirectWithFlash(c, middleware.LoginPath, msgPasswordChanged)
}

var (
	errNoResetTarget   = errors.New("no reset token and no session")
	errPasswordChanged = fmt.Errorf("%w: password changed by another request", services.ErrInvalidResetToken)
)

// replacePasswordHash stores hash only while the customer still has the hash
// the change was checked against, so one reset link cannot win twice
func (ctl *Controller) replacePasswordHash(ctx context.Context, customer *models.Customer, hash string) error {
	result := ctl.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("cpf = ? AND password_hash = ?", customer.CPF, customer.PasswordHash).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errPasswordChanged
	}
	return nil
}

// resetTarget picks whose password changes: the subject of a valid reset
// token, or else the logged-in customer
func (ctl *Controller) resetTarget(c *gin.Context, token string) (*models.Customer, error) {
	if token == "" {
		customer, err := middleware.GetCustomer(c)
		if err != nil {
			return nil, errNoResetTarget
		}
		return customer, nil
	}

	claims, err := ctl.resets.Parse(token)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := ctl.db.WithContext(c.Request.Context()).Where("cpf = ?", claims.Subject).First(&customer).Error; err != nil {
		return nil, err
	}

	// A token stops working once the password it was issued against changes
	if !ctl.resets.Matches(claims, &customer) {
		return nil, fmt.Errorf("%w: already used", services.ErrInvalidResetToken)
	}

	return &customer, nil
}
