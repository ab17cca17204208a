package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
)

const resetTokenIssuer = "kishimoto-web/password-reset"

// ErrInvalidResetToken covers malformed, forged, expired and already used reset tokens
var ErrInvalidResetToken = errors.New("invalid password reset token")

// ResetClaims identifies the customer a reset link was issued for.
// Fingerprint ties the token to the password hash current at issue time,
// so the link stops working once the password changes.
type ResetClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// ResetTokenService issues and verifies signed password reset tokens
type ResetTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewResetTokenService creates a service signing HS256 tokens valid for ttl
func NewResetTokenService(secret string, ttl time.Duration) *ResetTokenService {
	return &ResetTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a reset token for the customer
func (s *ResetTokenService) Issue(customer *models.Customer) (string, error) {
	now := s.now()
	claims := ResetClaims{
		Fingerprint: s.fingerprint(customer.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    resetTokenIssuer,
			Subject:   customer.CPF,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry of a reset token
func (s *ResetTokenService) Parse(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResetToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidResetToken
	}
	return claims, nil
}

// Matches reports whether the token was issued for the customer against
// their current password
func (s *ResetTokenService) Matches(claims *ResetClaims, customer *models.Customer) bool {
	if claims == nil || customer == nil || customer.CPF != claims.Subject {
		return false
	}
	return hmac.Equal([]byte(claims.Fingerprint), []byte(s.fingerprint(customer.PasswordHash)))
}

func (s *ResetTokenService) fingerprint(passwordHash string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(passwordHash))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:12])
}
