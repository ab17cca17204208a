package services

import "time"

// SetNow overrides the clock used by the session service in tests
func (s *SessionService) SetNow(now func() time.Time) { s.now = now }
