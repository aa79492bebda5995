package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/ashherx/coin-bounce/internal/db"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, repo AuthRepository, opts ...TokenOption) *AuthService {
	t.Helper()
	cfg := testAuthConfig()
	tokens, err := NewTokenService(cfg, opts...)
	require.NoError(t, err)
	svc, err := NewAuthService(repo, tokens, cfg, logging.NewNop())
	require.NoError(t, err)
	return svc
}

func registerRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Username:        "alice01",
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "Abcd1234",
		ConfirmPassword: "Abcd1234",
	}
}

func loginRequest() model.LoginRequest {
	return model.LoginRequest{Username: "alice01", Password: "Abcd1234"}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemory()
	svc := newTestAuthService(t, repo)

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, registered.User.ID)
	assert.Equal(t, "alice01", registered.User.Username)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.Equal(t, "Alice", registered.User.Name)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	stored, err := repo.GetUserByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd1234", stored.PasswordHash)

	_, err = repo.FindRefreshToken(ctx, registered.User.ID, hashRefreshToken(registered.RefreshToken))
	require.NoError(t, err, "register must leave a ledger row")

	loggedIn, err := svc.Login(ctx, loginRequest())
	require.NoError(t, err)
	assert.Equal(t, registered.User, loggedIn.User)

	me, err := svc.Authenticate(ctx, loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, me.ID)
}

func TestAuthService_RegisteredRefreshTokenIsRefreshable(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User, refreshed.User)
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	sameEmail := registerRequest()
	sameEmail.Username = "bobby01"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, msgEmailInUse, Message(err, ""))

	sameUsername := registerRequest()
	sameUsername.Email = "bob@example.com"
	_, err = svc.Register(ctx, sameUsername)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, msgUsernameInUse, Message(err, ""))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RegisterRequest)
	}{
		{"password-without-upper", func(r *model.RegisterRequest) { r.Password, r.ConfirmPassword = "abc12345", "abc12345" }},
		{"password-too-short", func(r *model.RegisterRequest) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" }},
		{"confirm-mismatch", func(r *model.RegisterRequest) { r.ConfirmPassword = "Abcd12345" }},
		{"username-too-short", func(r *model.RegisterRequest) { r.Username = "abcd" }},
		{"username-too-long", func(r *model.RegisterRequest) { r.Username = "abcdefghijabcdefghijabcdefghij1" }},
		{"name-missing", func(r *model.RegisterRequest) { r.Name = "" }},
		{"name-too-long", func(r *model.RegisterRequest) { r.Name = "abcdefghijabcdefghijabcdefghij1" }},
		{"email-invalid", func(r *model.RegisterRequest) { r.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := db.NewMemory()
			svc := newTestAuthService(t, repo)
			req := registerRequest()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if Message(err, "") == "" {
				t.Fatalf("expected a client message")
			}
			exists, _ := repo.UserExistsByEmail(context.Background(), req.Email)
			if exists {
				t.Fatalf("invalid registration must not create a user")
			}
		})
	}
}

func TestAuthService_RegisterAcceptsValidPassword(t *testing.T) {
	svc := newTestAuthService(t, db.NewMemory())
	req := registerRequest()
	req.Password, req.ConfirmPassword = "Abcd1234", "Abcd1234"
	_, err := svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "nobody1", Password: "Abcd1234"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, msgInvalidUsername, Message(err, ""))

	_, err = svc.Login(ctx, model.LoginRequest{Username: "alice01", Password: "Wrong1234"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, msgInvalidPassword, Message(err, ""))

	_, err = svc.Login(ctx, model.LoginRequest{Username: "alice01"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_LoginReplacesPreviousRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, loginRequest())
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	first, err := svc.Login(ctx, loginRequest())
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "rotated token must not be reusable")

	third, err := svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.User, third.User)
}

func TestAuthService_RefreshRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "garbage",
		"access-token": registered.AccessToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Refresh(ctx, token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuthService_LogoutThenRefreshFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	session, err := svc.Login(ctx, loginRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))

	_, err = svc.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Logout is idempotent.
	assert.NoError(t, svc.Logout(ctx, session.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "never-issued"))
}

func TestAuthService_ExpiredAccessTokenStillRefreshable(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	svc := newTestAuthService(t, db.NewMemory(), WithClock(clock.Now))

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	session, err := svc.Login(ctx, loginRequest())
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)

	_, err = svc.Authenticate(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	refreshed, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)

	me, err := svc.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, me.ID)

	clock.Advance(61 * time.Minute)
	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "expired refresh token")
}

func TestAuthService_ConcurrentRefreshOfSameToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, db.NewMemory())
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	session, err := svc.Login(ctx, loginRequest())
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(ctx, session.RefreshToken); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestAuthService_ConcurrentLoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemory()
	svc := newTestAuthService(t, repo)
	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		current, err := svc.Login(ctx, loginRequest())
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			loggedIn  *Session
			refreshed *Session
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			loggedIn, _ = svc.Login(ctx, loginRequest())
		}()
		go func() {
			defer wg.Done()
			refreshed, _ = svc.Refresh(ctx, current.RefreshToken)
		}()
		wg.Wait()

		require.NotNil(t, loggedIn)
		valid := 0
		for _, s := range []*Session{loggedIn, refreshed} {
			if s == nil {
				continue
			}
			if _, err := repo.FindRefreshToken(ctx, registered.User.ID, hashRefreshToken(s.RefreshToken)); err == nil {
				valid++
			}
		}
		assert.Equal(t, 1, valid, "exactly one refresh token stays live")
	}
}

func TestAuthService_AuthenticateUnknownUser(t *testing.T) {
	ctx := context.Background()
	cfg := testAuthConfig()
	tokens, err := NewTokenService(cfg)
	require.NoError(t, err)
	svc, err := NewAuthService(db.NewMemory(), tokens, cfg, logging.NewNop())
	require.NoError(t, err)

	access, err := tokens.SignAccess("ghost")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, access)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// failingRepo fails selected calls on top of an in-memory store.
type failingRepo struct {
	*db.Memory
	createErr error
	upsertErr error
	deleteErr error
}

func (r *failingRepo) CreateUserWithRefreshToken(ctx context.Context, user *model.User, tokenHash string) (*model.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.Memory.CreateUserWithRefreshToken(ctx, user, tokenHash)
}

func (r *failingRepo) UpsertRefreshToken(ctx context.Context, userID, tokenHash string) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	return r.Memory.UpsertRefreshToken(ctx, userID, tokenHash)
}

func (r *failingRepo) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.Memory.DeleteRefreshTokenByHash(ctx, tokenHash)
}

func TestAuthService_RegisterRaceMapsDuplicate(t *testing.T) {
	repo := &failingRepo{Memory: db.NewMemory(), createErr: &db.DuplicateError{Field: "username"}}
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, msgUsernameInUse, Message(err, ""))
}

func TestAuthService_StorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	repo := &failingRepo{Memory: db.NewMemory(), createErr: boom}
	svc := newTestAuthService(t, repo)
	_, err := svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)

	repo.createErr = nil
	_, err = svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	repo.upsertErr = boom
	_, err = svc.Login(ctx, loginRequest())
	assert.ErrorIs(t, err, ErrStorage)

	repo.deleteErr = boom
	err = svc.Logout(ctx, "some-token")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestNewAuthService_CookieConfig(t *testing.T) {
	tokens, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	cfg := testAuthConfig()
	svc, err := NewAuthService(db.NewMemory(), tokens, cfg, logging.NewNop())
	require.NoError(t, err)

	cookies := svc.CookieConfig()
	assert.Equal(t, AccessCookieName, cookies.AccessName)
	assert.Equal(t, RefreshCookieName, cookies.RefreshName)
	assert.Equal(t, "/", cookies.Path)
	assert.True(t, cookies.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies.SameSite)
	assert.Equal(t, 24*60*60, cookies.MaxAge)
}

func TestNewAuthService_Misconfigured(t *testing.T) {
	tokens, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*config.AuthConfig)
	}{
		{"bcrypt-cost-not-a-number", func(c *config.AuthConfig) { c.BcryptCost = "ten" }},
		{"bcrypt-cost-too-low", func(c *config.AuthConfig) { c.BcryptCost = "2" }},
		{"cookie-max-age", func(c *config.AuthConfig) { c.CookieMaxAge = "forever" }},
		{"cookie-secure", func(c *config.AuthConfig) { c.CookieSecure = "maybe" }},
		{"cookie-samesite", func(c *config.AuthConfig) { c.CookieSameSite = "loose" }},
		{"samesite-none-insecure", func(c *config.AuthConfig) { c.CookieSameSite, c.CookieSecure = "none", "false" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			_, err := NewAuthService(db.NewMemory(), tokens, cfg, logging.NewNop())
			if !errors.Is(err, ErrMisconfigured) {
				t.Fatalf("expected ErrMisconfigured, got %v", err)
			}
		})
	}
}
