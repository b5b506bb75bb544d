package service

import (
	"errors"
	"testing"
	"time"

	"practicalprague/internal/auth"
	"practicalprague/internal/domain"
	"practicalprague/internal/ratelimit"

	"github.com/stretchr/testify/require"
)

type stubSecret struct {
	t *testing.T

	verifyFunc func(string) (bool, error)
}

func (s *stubSecret) Verify(password string) (bool, error) {
	if s.verifyFunc != nil {
		return s.verifyFunc(password)
	}
	s.t.Fatalf("Verify called unexpectedly")
	return false, errors.New("unexpected call")
}

func newGate(t *testing.T, secret string) (*GateService, *ratelimit.Limiter, *time.Time) {
	t.Helper()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	lim := ratelimit.NewDefault()
	lim.Now = clock

	v, err := auth.ParseSecret(secret, false)
	require.NoError(t, err)

	return &GateService{Limiter: lim, Secret: v, Now: clock}, lim, &now
}

func TestGateFiveWrongThenRateLimited(t *testing.T) {
	gate, _, _ := newGate(t, "s3cret")

	for i := 1; i <= 5; i++ {
		err := gate.Authenticate("nope", "1.2.3.4")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials, "attempt %d", i)
	}

	err := gate.Authenticate("nope", "1.2.3.4")
	var rl *domain.RateLimitedError
	require.ErrorAs(t, err, &rl)
	require.ErrorIs(t, err, domain.ErrRateLimited)
	require.Equal(t, 15, rl.MinutesLeft)
}

func TestGateRateLimitedEvenWithCorrectPassword(t *testing.T) {
	gate, _, _ := newGate(t, "s3cret")

	for i := 0; i < 5; i++ {
		_ = gate.Authenticate("nope", "1.2.3.4")
	}
	require.ErrorIs(t, gate.Authenticate("s3cret", "1.2.3.4"), domain.ErrRateLimited)
}

func TestGateSuccessAfterWindowExpiresClearsCounter(t *testing.T) {
	gate, lim, now := newGate(t, "s3cret")

	for i := 0; i < 5; i++ {
		_ = gate.Authenticate("nope", "1.2.3.4")
	}
	require.ErrorIs(t, gate.Authenticate("nope", "1.2.3.4"), domain.ErrRateLimited)

	*now = now.Add(15*time.Minute + time.Second)
	require.NoError(t, gate.Authenticate("s3cret", "1.2.3.4"))
	require.Equal(t, 0, lim.Attempts("1.2.3.4"))

	require.ErrorIs(t, gate.Authenticate("nope", "1.2.3.4"), domain.ErrInvalidCredentials)
	require.Equal(t, 1, lim.Attempts("1.2.3.4"))
}

func TestGateSuccessResetsCount(t *testing.T) {
	gate, lim, _ := newGate(t, "s3cret")

	for i := 0; i < 3; i++ {
		_ = gate.Authenticate("nope", "1.2.3.4")
	}
	require.Equal(t, 3, lim.Attempts("1.2.3.4"))

	require.NoError(t, gate.Authenticate("s3cret", "1.2.3.4"))
	require.ErrorIs(t, gate.Authenticate("nope", "1.2.3.4"), domain.ErrInvalidCredentials)
	require.Equal(t, 1, lim.Attempts("1.2.3.4"))
}

func TestGateMinutesLeftRoundsUp(t *testing.T) {
	gate, _, now := newGate(t, "s3cret")

	for i := 0; i < 5; i++ {
		_ = gate.Authenticate("nope", "k")
	}

	*now = now.Add(13*time.Minute + 30*time.Second)
	var rl *domain.RateLimitedError
	require.ErrorAs(t, gate.Authenticate("nope", "k"), &rl)
	require.Equal(t, 2, rl.MinutesLeft)

	*now = now.Add(89 * time.Second)
	require.ErrorAs(t, gate.Authenticate("nope", "k"), &rl)
	require.Equal(t, 1, rl.MinutesLeft)

	*now = now.Add(time.Second)
	require.ErrorAs(t, gate.Authenticate("nope", "k"), &rl)
	require.Equal(t, 0, rl.MinutesLeft)

	*now = now.Add(time.Millisecond)
	require.NoError(t, gate.Authenticate("s3cret", "k"))
}

func TestGateMisconfigured(t *testing.T) {
	gate, lim, _ := newGate(t, "")
	require.Nil(t, gate.Secret)

	require.ErrorIs(t, gate.Authenticate("anything", "k"), domain.ErrMisconfigured)
	require.Equal(t, 1, lim.Attempts("k"), "misconfigured attempts still count")
}

func TestGateHashedSecret(t *testing.T) {
	h, err := auth.HashPasswordBcrypt("s3cret", 4)
	require.NoError(t, err)

	gate, _, _ := newGate(t, h)
	require.ErrorIs(t, gate.Authenticate("nope", "k"), domain.ErrInvalidCredentials)
	require.NoError(t, gate.Authenticate("s3cret", "k"))
}

func TestGateVerifyErrorIsNotInvalidCredentials(t *testing.T) {
	lim := ratelimit.NewDefault()
	gate := &GateService{
		Limiter: lim,
		Secret: &stubSecret{t: t, verifyFunc: func(string) (bool, error) {
			return false, errors.New("corrupt hash")
		}},
	}

	err := gate.Authenticate("pw", "k")
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestGateIdentifiersIndependent(t *testing.T) {
	gate, _, _ := newGate(t, "s3cret")

	for i := 0; i < 5; i++ {
		_ = gate.Authenticate("nope", "a")
	}
	require.ErrorIs(t, gate.Authenticate("nope", "a"), domain.ErrRateLimited)
	require.ErrorIs(t, gate.Authenticate("nope", "b"), domain.ErrInvalidCredentials)
	require.NoError(t, gate.Authenticate("s3cret", "b"))
}

func TestGateCheckSession(t *testing.T) {
	gate := &GateService{}
	require.True(t, gate.CheckSession("authenticated"))
	require.False(t, gate.CheckSession(""))
	require.False(t, gate.CheckSession("authenticated2"))
}

func TestGateAdmitCountsWithoutVerify(t *testing.T) {
	gate, lim, _ := newGate(t, "s3cret")

	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		require.NoError(t, gate.Admit("9.9.9.9"))
	}
	require.Equal(t, ratelimit.DefaultMaxAttempts, lim.Attempts("9.9.9.9"))

	var rl *domain.RateLimitedError
	require.ErrorAs(t, gate.Admit("9.9.9.9"), &rl)
	require.Equal(t, 15, rl.MinutesLeft)
}

func TestGateReject(t *testing.T) {
	gate, _, _ := newGate(t, "s3cret")
	require.ErrorIs(t, gate.Reject(), domain.ErrInvalidCredentials)

	unset, _, _ := newGate(t, "")
	require.ErrorIs(t, unset.Reject(), domain.ErrMisconfigured)
}
