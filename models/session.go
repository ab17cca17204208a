package models

import "time"

// Session is the server-side half of a login. The browser only ever holds
// the opaque Token.
type Session struct {
	Token       string    `gorm:"primaryKey;size:36" json:"-"`
	CustomerCPF string    `gorm:"size:14;not null;index" json:"customer_cpf"`
	Customer    Customer  `gorm:"foreignKey:CustomerCPF;references:CPF;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is no longer usable at now
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
