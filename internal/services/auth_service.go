package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"photoshare/internal/cache"
	"photoshare/internal/messages"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
)

const (
	scopeAccess  = "access_token"
	scopeRefresh = "refresh_token"
)

// TokenPair is the response body of login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles credential hashing, scoped JWT issuance/verification
// and the signup/login/refresh/confirmation flows.
type AuthService struct {
	userRepo   repositories.UserRepository
	userCache  *cache.UserCache
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
	logger     *zap.SugaredLogger
}

// NewAuthService creates a new AuthService. The cache may be nil, in which
// case every identity resolution hits the database.
func NewAuthService(userRepo repositories.UserRepository, userCache *cache.UserCache,
	jwtSecret string, accessTTL, refreshTTL, emailTTL time.Duration, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		userCache:  userCache,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
		logger:     logger,
	}
}

// HashPassword turns a plaintext password into a storable bcrypt hash; the
// salt is embedded in the hash string.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext attempt against a stored hash. It
// returns false on any mismatch and never panics.
func (s *AuthService) VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CreateAccessToken issues a short-lived token scoped for API calls.
func (s *AuthService) CreateAccessToken(email string) (string, error) {
	return s.signToken(email, s.accessTTL, scopeAccess)
}

// CreateRefreshToken issues the long-lived token exchanged for new pairs.
func (s *AuthService) CreateRefreshToken(email string) (string, error) {
	return s.signToken(email, s.refreshTTL, scopeRefresh)
}

// CreateEmailToken issues the token embedded in confirmation links. It
// carries no scope claim.
func (s *AuthService) CreateEmailToken(email string) (string, error) {
	return s.signToken(email, s.emailTTL, "")
}

func (s *AuthService) signToken(email string, ttl time.Duration, scope string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if scope != "" {
		claims["scope"] = scope
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// DecodeAccessToken verifies signature, expiry and scope of an access token
// and returns the subject email.
func (s *AuthService) DecodeAccessToken(tokenString string) (string, error) {
	return s.decodeScoped(tokenString, scopeAccess)
}

// DecodeRefreshToken verifies signature, expiry and scope of a refresh
// token and returns the subject email. The scope check is what stops a
// refresh token being replayed as an access token and vice versa.
func (s *AuthService) DecodeRefreshToken(tokenString string) (string, error) {
	return s.decodeScoped(tokenString, scopeRefresh)
}

func (s *AuthService) decodeScoped(tokenString, wantScope string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if scope, _ := claims["scope"].(string); scope != wantScope {
		return "", ErrInvalidScope
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrInvalidCredentials
	}
	return email, nil
}

// EmailFromToken extracts the subject from an email-verification token.
func (s *AuthService) EmailFromToken(tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", ErrInvalidEmailToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrInvalidEmailToken
	}
	return email, nil
}

// Signup registers a new user. The first registrant becomes admin, the
// second moderator, everyone after that a plain user; this is a bootstrap
// convenience, not a policy. Returns ErrAccountExists when the email or
// username is already taken.
func (s *AuthService) Signup(user *models.User) (*models.User, error) {
	count, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	switch count {
	case 0:
		user.Role = models.RoleAdmin
	case 1:
		user.Role = models.RoleModerator
	default:
		user.Role = models.RoleUser
	}

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return nil, ErrAccountExists
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return nil, ErrAccountExists
	}

	hashed, err := s.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	user.Confirmed = false

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// GetByEmail resolves a user straight from the database.
func (s *AuthService) GetByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(email)
}

// Login authenticates by email and password. The check order is fixed:
// unknown email, unconfirmed email, wrong password. On success a new
// access/refresh pair is issued and the refresh token persisted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	if !s.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidPassword
	}
	return s.issuePair(user)
}

// Refresh exchanges a valid refresh token for a fresh pair. A presented
// token that does not match the stored one means it was already rotated or
// stolen: the stored token is revoked and the request fails.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (*TokenPair, error) {
	email, err := s.DecodeRefreshToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != tokenString {
		if err := s.userRepo.UpdateRefreshToken(user, nil); err != nil {
			s.logger.Errorw("failed to revoke refresh token", "email", email, "error", err)
		}
		return nil, ErrInvalidRefreshToken
	}
	return s.issuePair(user)
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.CreateAccessToken(user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.CreateRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRefreshToken(user, &refreshToken); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// ConfirmEmail resolves the email token and marks the account confirmed.
// Existence is checked before the confirmed flag; confirming twice is a
// no-op that answers the already-confirmed message.
func (s *AuthService) ConfirmEmail(ctx context.Context, tokenString string) (string, error) {
	email, err := s.EmailFromToken(tokenString)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrVerificationFailed
		}
		return "", err
	}
	if user.Confirmed {
		return messages.VerifiedAlready, nil
	}
	if err := s.userRepo.ConfirmEmail(email); err != nil {
		return "", err
	}
	user.Confirmed = true
	s.CacheUser(ctx, user)
	return messages.VerificationComplete, nil
}

// CurrentUser resolves the authenticated user behind an access token,
// consulting the session cache before the database.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := s.DecodeAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if s.userCache != nil {
		if user, ok := s.userCache.Get(ctx, email); ok {
			return user, nil
		}
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	s.CacheUser(ctx, user)
	return user, nil
}

// CacheUser rewrites the session-cache entry for a user, keeping the cached
// record in step after mutations like confirmation or avatar changes.
func (s *AuthService) CacheUser(ctx context.Context, user *models.User) {
	if s.userCache != nil {
		s.userCache.Set(ctx, user)
	}
}
