package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/ashherx/coin-bounce/internal/db"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

const (
	msgEmailInUse      = "Email already exists, use another email"
	msgUsernameInUse   = "Username already exists, use another username"
	msgInvalidUsername = "Invalid username"
	msgInvalidPassword = "Invalid password"
	msgUnauthorized    = "Unauthorized"
)

// AuthRepository is the credential store plus the refresh token ledger.
// Not-found results are reported as db.ErrNotFound and unique violations
// as *db.DuplicateError.
type AuthRepository interface {
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	CreateUserWithRefreshToken(ctx context.Context, user *model.User, tokenHash string) (*model.User, error)

	UpsertRefreshToken(ctx context.Context, userID, tokenHash string) error
	FindRefreshToken(ctx context.Context, userID, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error)
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error
}

type CookieConfig struct {
	AccessName  string
	RefreshName string
	Path        string
	Domain      string
	Secure      bool
	SameSite    http.SameSite
	MaxAge      int
}

// Session is what a successful register, login or refresh hands back to
// the transport: the public user plus the two tokens to set as cookies.
type Session struct {
	User         model.UserDTO
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	repo       AuthRepository
	tokens     *TokenService
	validate   *validator.Validate
	bcryptCost int
	cookieCfg  CookieConfig
	log        logging.Logger
}

func NewAuthService(repo AuthRepository, tokens *TokenService, cfg config.AuthConfig, log logging.Logger) (*AuthService, error) {
	cost, err := strconv.Atoi(strings.TrimSpace(cfg.BcryptCost))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: invalid BCRYPT_COST", ErrMisconfigured)
	}

	maxAge, err := parsePositiveDuration(cfg.CookieMaxAge)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_MAX_AGE", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		validate:   newValidator(),
		bcryptCost: cost,
		log:        log,
		cookieCfg: CookieConfig{
			AccessName:  AccessCookieName,
			RefreshName: RefreshCookieName,
			Path:        cookiePath,
			Domain:      cfg.CookieDomain,
			Secure:      cookieSecure,
			SameSite:    cookieSameSite,
			MaxAge:      int(maxAge / time.Second),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Register creates the user and its first session. The user row and the
// ledger row are written in one transaction, so a returned session always
// has a refreshable token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*Session, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	emailInUse, err := s.repo.UserExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageError(err)
	}
	if emailInUse {
		return nil, newError(ErrConflict, msgEmailInUse)
	}

	usernameInUse, err := s.repo.UserExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, storageError(err)
	}
	if usernameInUse {
		return nil, newError(ErrConflict, msgUsernameInUse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	accessToken, refreshToken, err := s.signPair(user.ID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateUserWithRefreshToken(ctx, user, hashRefreshToken(refreshToken))
	if err != nil {
		var dup *db.DuplicateError
		if errors.As(err, &dup) {
			switch dup.Field {
			case "email":
				return nil, newError(ErrConflict, msgEmailInUse)
			case "username":
				return nil, newError(ErrConflict, msgUsernameInUse)
			}
		}
		return nil, storageError(err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID)
	return &Session{User: created.DTO(), AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login checks the credentials and replaces whatever refresh token the
// user had before. The two failure messages differ on purpose.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*Session, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, unauthorized(msgInvalidUsername)
		}
		return nil, storageError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, unauthorized(msgInvalidPassword)
	}

	accessToken, refreshToken, err := s.signPair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertRefreshToken(ctx, user.ID, hashRefreshToken(refreshToken)); err != nil {
		return nil, storageError(err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{User: user.DTO(), AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout drops the ledger entry holding refreshToken. An empty, unknown or
// already revoked token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	if err := s.repo.DeleteRefreshTokenByHash(ctx, hashRefreshToken(refreshToken)); err != nil {
		return storageError(err)
	}
	return nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// stops being valid as soon as the exchange succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, unauthorized(msgUnauthorized)
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, unauthorized(msgUnauthorized)
	}

	oldHash := hashRefreshToken(refreshToken)
	if _, err := s.repo.FindRefreshToken(ctx, userID, oldHash); err != nil {
		if db.IsNoRows(err) {
			return nil, unauthorized(msgUnauthorized)
		}
		return nil, storageError(err)
	}

	accessToken, newRefreshToken, err := s.signPair(userID)
	if err != nil {
		return nil, err
	}

	rotated, err := s.repo.RotateRefreshToken(ctx, userID, oldHash, hashRefreshToken(newRefreshToken))
	if err != nil {
		return nil, storageError(err)
	}
	if !rotated {
		s.log.Warn(ctx, "refresh token superseded during rotation", "user_id", userID)
		return nil, unauthorized(msgUnauthorized)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, unauthorized(msgUnauthorized)
		}
		return nil, storageError(err)
	}

	return &Session{User: user.DTO(), AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Authenticate resolves an access token to its user. Only signature and
// expiry are checked; the ledger is not consulted.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.UserDTO, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, unauthorized(msgUnauthorized)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, unauthorized(msgUnauthorized)
		}
		return nil, storageError(err)
	}

	dto := user.DTO()
	return &dto, nil
}

func (s *AuthService) signPair(userID string) (string, string, error) {
	accessToken, err := s.tokens.SignAccess(userID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.tokens.SignRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}

// hashRefreshToken is the ledger key for a refresh token; raw tokens are
// never stored.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
