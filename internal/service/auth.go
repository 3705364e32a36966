package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserLimitReached   = errors.New("user limit reached")
)

type AuthService struct {
	userRepository           repository.UserRepository
	tokenRepository          repository.TokenRepository
	emailService             *EmailService
	jwtSecret                string
	isProduction             bool
	jwtExpiry                time.Duration
	tokenEmailVerifyExpiry   time.Duration
	tokenPasswordResetExpiry time.Duration
	requireEmailVerification bool
	maxUserCount             int
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenEmailVerifyExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
	requireEmailVerification bool,
	maxUserCount int,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		isProduction:             isProduction,
		jwtExpiry:                jwtExpiry,
		tokenEmailVerifyExpiry:   tokenEmailVerifyExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		requireEmailVerification: requireEmailVerification,
		maxUserCount:             maxUserCount,
	}
}

// Register creates a new account. When email verification is required
// the user gets a verification token by mail and cannot log in until
// they confirm it.
func (s *AuthService) Register(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	if s.maxUserCount >= 0 {
		count, err := s.userRepository.Count()
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if count >= s.maxUserCount {
			return nil, ErrUserLimitReached
		}
	}

	existing, err := s.userRepository.ByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hashedPassword,
		CreatedAt:    now,
	}

	if !s.requireEmailVerification {
		user.EmailVerifiedAt = &now
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.requireEmailVerification {
		err = s.sendVerificationToken(user)
		if err != nil {
			slog.Error("failed to send verification email", "error", err, "email", user.Email)
		}
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if s.requireEmailVerification && !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// VerifyEmail consumes a verification token and marks the account
// verified. ConsumeToken marks the token used atomically, so a link
// never works twice.
func (s *AuthService) VerifyEmail(token string) (*model.User, error) {
	tokenModel, err := s.tokenRepository.ConsumeToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if tokenModel.Type != model.TokenTypeEmailVerify {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(tokenModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if user.EmailVerifiedAt == nil {
		now := time.Now()
		user.EmailVerifiedAt = &now
		err = s.userRepository.Update(user)
		if err != nil {
			return nil, fmt.Errorf("failed to verify email: %w", err)
		}
	}

	slog.Info("email verified", "user_id", user.ID)
	return user, nil
}

// ForgotPassword sends a reset token if the account exists. It always
// reports success to the caller to prevent email enumeration.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		slog.Info("password reset requested for unknown email", "email", email)
		return nil
	}

	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old reset tokens", "error", err, "user_id", user.ID)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(s.tokenPasswordResetExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(user.Email, resetToken)
	if err != nil {
		slog.Error("failed to send reset email", "error", err, "email", user.Email)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("password reset link sent", "email", user.Email)
	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) (*model.User, error) {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return nil, err
	}

	tokenModel, err := s.tokenRepository.ConsumeToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if tokenModel.Type != model.TokenTypePasswordReset {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(tokenModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hashedPassword
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	// A confirmed reset proves control of the mailbox.
	if user.EmailVerifiedAt == nil {
		now := time.Now()
		user.EmailVerifiedAt = &now
		err = s.userRepository.Update(user)
		if err != nil {
			slog.Warn("failed to verify email on reset", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("password reset", "user_id", user.ID)
	return user, nil
}

// ResendVerification issues a fresh verification token. Silent for
// unknown or already verified accounts.
func (s *AuthService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return nil
	}
	if user.IsVerified() {
		return nil
	}

	return s.sendVerificationToken(user)
}

func (s *AuthService) sendVerificationToken(user *model.User) error {
	err := s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypeEmailVerify)
	if err != nil {
		slog.Warn("failed to delete old verification tokens", "error", err, "user_id", user.ID)
	}

	verificationToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     verificationToken,
		ExpiresAt: time.Now().Add(s.tokenEmailVerifyExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	return s.emailService.SendVerificationEmail(user.Email, verificationToken)
}
