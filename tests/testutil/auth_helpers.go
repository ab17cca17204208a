package testutil

import (
	"context"
	"errors"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/restaurante-kishimoto/kishimoto-web/middleware"
)

const (
	// AdminToken carries the back-office scope
	AdminToken = "admin-token"
	// ReadOnlyToken is valid but lacks the back-office scope
	ReadOnlyToken = "read-only-token"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject string, scopes ...string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://kishimoto.test/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// FakeTokenValidator accepts AdminToken and ReadOnlyToken and rejects anything else
func FakeTokenValidator(adminScope string) jwtmiddleware.ValidateToken {
	return func(ctx context.Context, token string) (interface{}, error) {
		switch token {
		case AdminToken:
			return MockValidatedClaims("auth0|admin", "read:menu", adminScope), nil
		case ReadOnlyToken:
			return MockValidatedClaims("auth0|viewer", "read:menu"), nil
		default:
			return nil, errors.New("unknown token")
		}
	}
}

// FakeAdminAuth is the bearer token middleware backed by FakeTokenValidator
func FakeAdminAuth(adminScope string) gin.HandlerFunc {
	return middleware.NewTokenMiddleware(FakeTokenValidator(adminScope))
}
