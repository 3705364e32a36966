package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
)

func newTestAuthService(t *testing.T, requireVerification bool, maxUsers int) (*AuthService, *testDeps) {
	t.Helper()

	database := setupTestDB(t)
	deps := &testDeps{
		db:        database,
		userRepo:  repository.NewUserRepository(database),
		tokenRepo: repository.NewTokenRepository(database),
	}

	// Dev mode email service logs instead of sending
	emailService := NewEmailService("", "noreply@example.com", "http://localhost:8080", "BeaverPrime", true)

	svc := NewAuthService(
		deps.userRepo,
		deps.tokenRepo,
		emailService,
		"test-secret",
		false,
		time.Hour,
		24*time.Hour,
		time.Hour,
		requireVerification,
		maxUsers,
	)
	return svc, deps
}

type testDeps struct {
	db        *sqlx.DB
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t, false, -1)

	user, err := svc.Register("Person@Example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, "person@example.com", user.Email, "email is normalized")
	assert.True(t, user.IsVerified(), "verification off marks accounts verified at once")

	loggedIn, err := svc.Login("person@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = svc.Login("person@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, false, -1)

	_, err := svc.Register("person@example.com", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Register("person@example.com", "another-password-42")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterUserLimit(t *testing.T) {
	svc, _ := newTestAuthService(t, false, 1)

	_, err := svc.Register("first@example.com", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Register("second@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrUserLimitReached)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, deps := newTestAuthService(t, true, -1)

	user, err := svc.Register("person@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.False(t, user.IsVerified())

	_, err = svc.Login("person@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	// Grab the verification token straight from storage and consume it
	var token model.Token
	tokens, err := tokensForUser(deps, user.ID, model.TokenTypeEmailVerify)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	token = *tokens[0]

	verified, err := svc.VerifyEmail(token.Token)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified())

	_, err = svc.Login("person@example.com", "correct-horse-battery")
	require.NoError(t, err)

	// A consumed token never works twice
	_, err = svc.VerifyEmail(token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, deps := newTestAuthService(t, false, -1)

	user, err := svc.Register("person@example.com", "correct-horse-battery")
	require.NoError(t, err)

	err = svc.ForgotPassword("person@example.com")
	require.NoError(t, err)

	// Unknown emails report success
	err = svc.ForgotPassword("nobody@example.com")
	require.NoError(t, err)

	tokens, err := tokensForUser(deps, user.ID, model.TokenTypePasswordReset)
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	_, err = svc.ResetPassword(tokens[0].Token, "a-brand-new-password")
	require.NoError(t, err)

	_, err = svc.Login("person@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("person@example.com", "a-brand-new-password")
	require.NoError(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t, false, -1)

	user, err := svc.Register("person@example.com", "correct-horse-battery")
	require.NoError(t, err)

	tokenString, err := svc.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := svc.VerifyJWT(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])

	_, err = svc.VerifyJWT(tokenString + "tampered")
	assert.Error(t, err)
}

// tokensForUser reads tokens straight from storage; the repository
// deliberately has no listing method.
func tokensForUser(deps *testDeps, userID string, tokenType string) ([]*model.Token, error) {
	var tokens []*model.Token
	err := deps.db.Select(&tokens,
		`SELECT * FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`,
		userID, tokenType,
	)
	return tokens, err
}
