package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     "30m",
		RefreshTokenTTL:    "60m",
		CookieMaxAge:       "24h",
		CookiePath:         "/",
		BcryptCost:         "4",
	}
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenService_RoundTripWithinLifetime(t *testing.T) {
	clock := newFakeClock()
	ts, err := NewTokenService(testAuthConfig(), WithClock(clock.Now))
	require.NoError(t, err)

	access, err := ts.SignAccess("user-1")
	require.NoError(t, err)
	refresh, err := ts.SignRefresh("user-1")
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	got, err := ts.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)

	clock.Advance(30 * time.Minute)
	got, err = ts.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)
}

func TestTokenService_ExpiredTokensRejected(t *testing.T) {
	clock := newFakeClock()
	ts, err := NewTokenService(testAuthConfig(), WithClock(clock.Now))
	require.NoError(t, err)

	access, err := ts.SignAccess("user-1")
	require.NoError(t, err)
	refresh, err := ts.SignRefresh("user-1")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	_, err = ts.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ts.VerifyRefresh(refresh)
	assert.NoError(t, err, "refresh token lives 60 minutes")

	clock.Advance(30 * time.Minute)
	_, err = ts.VerifyRefresh(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	ts, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	access, err := ts.SignAccess("user-1")
	require.NoError(t, err)
	refresh, err := ts.SignRefresh("user-1")
	require.NoError(t, err)

	_, err = ts.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ts.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignAndMalformedTokens(t *testing.T) {
	ts, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"alg-none":  none,
		"no-expiry": noExp,
		"malformed": "not.a.jwt",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ts.VerifyAccess(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_TokensAreUniquePerIssue(t *testing.T) {
	clock := newFakeClock()
	ts, err := NewTokenService(testAuthConfig(), WithClock(clock.Now))
	require.NoError(t, err)

	a, err := ts.SignRefresh("user-1")
	require.NoError(t, err)
	b, err := ts.SignRefresh("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewTokenService_Misconfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AuthConfig)
	}{
		{"missing-access-secret", func(c *config.AuthConfig) { c.AccessTokenSecret = "" }},
		{"missing-refresh-secret", func(c *config.AuthConfig) { c.RefreshTokenSecret = "" }},
		{"same-secrets", func(c *config.AuthConfig) { c.RefreshTokenSecret = c.AccessTokenSecret }},
		{"bad-access-ttl", func(c *config.AuthConfig) { c.AccessTokenTTL = "soon" }},
		{"negative-refresh-ttl", func(c *config.AuthConfig) { c.RefreshTokenTTL = "-1m" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			_, err := NewTokenService(cfg)
			if !errors.Is(err, ErrMisconfigured) {
				t.Fatalf("expected ErrMisconfigured, got %v", err)
			}
		})
	}
}
