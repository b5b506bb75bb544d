package service

import (
	"fmt"
	"math"
	"time"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
	"practicalprague/internal/ratelimit"
)

type AttemptLimiter interface {
	Check(identifier string) ratelimit.Decision
	Clear(identifier string)
}

// GateService guards the admin area behind one shared secret.
type GateService struct {
	Limiter AttemptLimiter
	Secret  auth.SecretVerifier
	Now     func() time.Time
}

// Authenticate checks password for clientID. It returns nil on success,
// *domain.RateLimitedError when the client is locked out,
// domain.ErrMisconfigured when no secret is set and
// domain.ErrInvalidCredentials on a mismatch.
func (s *GateService) Authenticate(password, clientID string) error {
	if err := s.Admit(clientID); err != nil {
		return err
	}
	return s.Verify(password, clientID)
}

// Admit records an attempt for clientID. Every admitted attempt counts
// against the window until Verify succeeds.
func (s *GateService) Admit(clientID string) error {
	if d := s.Limiter.Check(clientID); !d.Allowed {
		return &domain.RateLimitedError{MinutesLeft: minutesUntil(d.ResetAt, s.now())}
	}
	return nil
}

// Verify compares password with the configured secret and clears the
// client's attempts on a match. Call it only after Admit.
func (s *GateService) Verify(password, clientID string) error {
	if s.Secret == nil {
		return domain.ErrMisconfigured
	}

	ok, err := s.Secret.Verify(password)
	if err != nil {
		return fmt.Errorf("verify admin secret: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	s.Limiter.Clear(clientID)
	return nil
}

// Reject fails an admitted attempt whose password could not match, such as a
// non-string value. A missing secret still reports ErrMisconfigured.
func (s *GateService) Reject() error {
	if s.Secret == nil {
		return domain.ErrMisconfigured
	}
	return domain.ErrInvalidCredentials
}

func (s *GateService) CheckSession(cookieValue string) bool {
	return auth.IsSessionValue(cookieValue)
}

func (s *GateService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// minutesUntil rounds up to whole minutes. A block checked at the exact reset
// instant reports 0.
func minutesUntil(resetAt, now time.Time) int {
	return int(math.Ceil(resetAt.Sub(now).Minutes()))
}
