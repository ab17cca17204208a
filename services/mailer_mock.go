package services

import (
	"context"
	"sync"
)

// SentMail is a message captured by MockMailer
type SentMail struct {
	To   string
	Name string
	Link string
}

// MockMailer is a mock implementation of Mailer for testing
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error // returned from every send when set
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendPasswordReset records the message
func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.sent = append(m.sent, SentMail{To: to, Name: name, Link: link})
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of every recorded message
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
