package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSessionNotFound means the token is unknown, revoked, or its customer is gone
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired means the token existed but its lifetime is over
	ErrSessionExpired = errors.New("session expired")
)

// SessionService keeps login sessions in the database. The browser holds
// only the opaque token; every request is re-validated here.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewSessionService creates a session service whose sessions live for ttl
func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl, now: time.Now}
}

// TTL returns how long new sessions stay valid
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create starts a new session for the customer with the given CPF
func (s *SessionService) Create(ctx context.Context, customerCPF string) (*models.Session, error) {
	now := s.now()
	session := models.Session{
		Token:       uuid.NewString(),
		CustomerCPF: customerCPF,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// Resolve returns the customer owning token. Expired sessions and sessions
// whose customer no longer exists are deleted on sight.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	db := s.db.WithContext(ctx)

	var session models.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.Revoke(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	var customer models.Customer
	if err := db.Where("cpf = ?", session.CustomerCPF).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.Revoke(ctx, token); err != nil {
				return nil, err
			}
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session customer: %w", err)
	}

	return &customer, nil
}

// Revoke deletes a single session. Unknown tokens are not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session belonging to a customer
func (s *SessionService) RevokeAll(ctx context.Context, customerCPF string) error {
	if err := s.db.WithContext(ctx).Where("customer_cpf = ?", customerCPF).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired session and reports how many went away
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
