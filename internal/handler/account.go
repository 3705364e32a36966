package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type AccountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.userService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrentPassword) {
			writeError(w, http.StatusForbidden, err.Error(), "invalid_password")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if err != nil {
		slog.Error("failed to delete account", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
