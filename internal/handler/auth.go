package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	translator  *i18n.Translator
}

func NewAuthHandler(authService *service.AuthService, translator *i18n.Translator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		translator:  translator,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Verified: user.IsVerified(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeLocalizedError(w, r, h.translator, http.StatusConflict, "auth.email_exists", "email_exists")
		case errors.Is(err, service.ErrUserLimitReached):
			writeLocalizedError(w, r, h.translator, http.StatusForbidden, "auth.user_limit_reached", "user_limit_reached")
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_email")
		default:
			writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":                  toUserResponse(user),
		"verification_required": !user.IsVerified(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotVerified):
			writeLocalizedError(w, r, h.translator, http.StatusForbidden, "auth.email_not_verified", "email_not_verified")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeLocalizedError(w, r, h.translator, http.StatusUnauthorized, "auth.invalid_credentials", "invalid_credentials")
		default:
			slog.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error", "internal")
		}
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	expiry := time.Now().Add(h.authService.JWTExpiry())
	h.authService.SetJWTCookie(w, token, expiry)

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// VerifyEmail serves both the GET link from the verification email and a
// POST with the token in the body.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		var req struct {
			Token string `json:"token"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		token = req.Token
	}

	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		writeLocalizedError(w, r, h.translator, http.StatusBadRequest, "auth.invalid_token", "invalid_token")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_email")
			return
		}
		slog.Error("forgot password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	// Same response whether the account exists or not.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.ResetPassword(req.Token, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeLocalizedError(w, r, h.translator, http.StatusBadRequest, "auth.invalid_token", "invalid_token")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.ResendVerification(req.Email)
	if err != nil {
		slog.Error("failed to resend verification", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
