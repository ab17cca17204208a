package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
)

const (
	sessionTokenKey = "token"
	customerKey     = "customer"
)

// LoginPath is where unauthenticated visitors are sent
const LoginPath = "/login/"

// SessionCookie installs the signed cookie store that carries the session
// token and flash messages
func SessionCookie(cfg *config.Config) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.SessionCookieName, store)
}

// LoadSession resolves the session token on every request. A valid token
// puts the customer in the context; a stale one is dropped from the cookie.
func LoadSession(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		customer, err := sessionService.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(customerKey, customer)
		case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrSessionExpired):
			if err := ClearSessionToken(c); err != nil {
				log.Printf("Failed to clear stale session cookie: %v", err)
			}
		default:
			log.Printf("Failed to resolve session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load session",
				},
			})
			return
		}

		c.Next()
	}
}

// RequireLogin redirects to the login page unless LoadSession found a customer
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetCustomer(c); err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCustomer extracts the logged-in customer from the Gin context
func GetCustomer(c *gin.Context) (*models.Customer, error) {
	value, exists := c.Get(customerKey)
	if !exists {
		return nil, &AuthError{Code: "NOT_LOGGED_IN", Message: "No customer in session"}
	}

	customer, ok := value.(*models.Customer)
	if !ok || customer == nil {
		return nil, &AuthError{Code: "INVALID_CUSTOMER", Message: "Customer is not in the expected format"}
	}

	return customer, nil
}

// SessionToken returns the opaque token stored in the cookie, if any
func SessionToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
	return token
}

// SetSessionToken stores a freshly created token in the cookie
func SetSessionToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(sessionTokenKey, token)
	return session.Save()
}

// ClearSessionToken removes the token from the cookie
func ClearSessionToken(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionTokenKey)
	return session.Save()
}

// AddFlash queues a message for the next rendered page
func AddFlash(c *gin.Context, message string) error {
	session := sessions.Default(c)
	session.AddFlash(message)
	return session.Save()
}

// Flashes pops every queued message
func Flashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return []string{}
	}

	messages := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			messages = append(messages, s)
		}
	}
	if err := session.Save(); err != nil {
		log.Printf("Failed to save session after reading flashes: %v", err)
	}
	return messages
}
