package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/services"
)

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, nil, "test-secret",
		15*time.Minute, 7*24*time.Hour, 24*time.Hour, zap.NewNop().Sugar())
}

func signupUser(t *testing.T, auth *services.AuthService, username, email string) *models.User {
	t.Helper()
	user, err := auth.Signup(&models.User{Username: username, Email: email, Password: "secret"})
	require.NoError(t, err)
	return user
}

func TestSignup_RoleAssignment(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)

	first := signupUser(t, auth, "agent007", "first@example.com")
	second := signupUser(t, auth, "agent008", "second@example.com")
	third := signupUser(t, auth, "agent009", "third@example.com")

	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, models.RoleModerator, second.Role)
	assert.Equal(t, models.RoleUser, third.Role)
}

func TestSignup_HashesPasswordAndStartsUnconfirmed(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)

	user := signupUser(t, auth, "agent007", "bond@example.com")

	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, auth.VerifyPassword("secret", user.Password))
}

func TestSignup_DuplicateEmailOrUsername(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)
	signupUser(t, auth, "agent007", "bond@example.com")

	_, err := auth.Signup(&models.User{Username: "someone", Email: "bond@example.com", Password: "secret"})
	assert.ErrorIs(t, err, services.ErrAccountExists)

	_, err = auth.Signup(&models.User{Username: "agent007", Email: "other@example.com", Password: "secret"})
	assert.ErrorIs(t, err, services.ErrAccountExists)
}

func TestLogin_CheckOrder(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)
	signupUser(t, auth, "agent007", "bond@example.com")

	_, err := auth.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, services.ErrInvalidEmail)

	_, err = auth.Login(ctx, "bond@example.com", "secret")
	assert.ErrorIs(t, err, services.ErrEmailNotConfirmed)

	require.NoError(t, repo.ConfirmEmail("bond@example.com"))

	_, err = auth.Login(ctx, "bond@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)

	pair, err := auth.Login(ctx, "bond@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, err := repo.GetByEmail("bond@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestRefresh_RotatesAndRevokesOnReplay(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)
	signupUser(t, auth, "agent007", "bond@example.com")
	require.NoError(t, repo.ConfirmEmail("bond@example.com"))

	pair, err := auth.Login(ctx, "bond@example.com", "secret")
	require.NoError(t, err)

	// The iat claim has one-second resolution; wait so the rotated token
	// differs from the original.
	time.Sleep(1100 * time.Millisecond)

	rotated, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the superseded token revokes the stored one.
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	_, err = auth.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestDecode_ScopeConfusion(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)

	access, err := auth.CreateAccessToken("bond@example.com")
	require.NoError(t, err)
	refresh, err := auth.CreateRefreshToken("bond@example.com")
	require.NoError(t, err)

	_, err = auth.DecodeAccessToken(refresh)
	assert.ErrorIs(t, err, services.ErrInvalidScope)
	_, err = auth.DecodeRefreshToken(access)
	assert.ErrorIs(t, err, services.ErrInvalidScope)

	email, err := auth.DecodeAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "bond@example.com", email)
}

func TestConfirmEmail(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)
	signupUser(t, auth, "agent007", "bond@example.com")

	token, err := auth.CreateEmailToken("bond@example.com")
	require.NoError(t, err)

	msg, err := auth.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, messages.VerificationComplete, msg)

	stored, err := repo.GetByEmail("bond@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)

	// Confirming twice is a no-op.
	msg, err = auth.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, messages.VerifiedAlready, msg)
}

func TestConfirmEmail_Failures(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)

	_, err := auth.ConfirmEmail(ctx, "not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidEmailToken)

	token, err := auth.CreateEmailToken("ghost@example.com")
	require.NoError(t, err)
	_, err = auth.ConfirmEmail(ctx, token)
	assert.ErrorIs(t, err, services.ErrVerificationFailed)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	auth := newAuthService(repo)
	signupUser(t, auth, "agent007", "bond@example.com")

	access, err := auth.CreateAccessToken("bond@example.com")
	require.NoError(t, err)

	user, err := auth.CurrentUser(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "agent007", user.Username)

	_, err = auth.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	unknown, err := auth.CreateAccessToken("ghost@example.com")
	require.NoError(t, err)
	_, err = auth.CurrentUser(ctx, unknown)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
