package handler

import (
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type ListHandler struct {
	listService *service.ListService
	translator  *i18n.Translator
}

func NewListHandler(listService *service.ListService, translator *i18n.Translator) *ListHandler {
	return &ListHandler{
		listService: listService,
		translator:  translator,
	}
}

type listResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func toListResponse(list *model.List) listResponse {
	return listResponse{
		ID:    list.ID,
		Name:  list.Name,
		Order: list.Order,
	}
}

type listRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	list, err := h.listService.Create(user.ID, req.Name, order)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusCreated, toListResponse(list))
}

func (h *ListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	lists, err := h.listService.Lists(user.ID)
	if err != nil {
		slog.Error("failed to get lists", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	out := make([]listResponse, 0, len(lists))
	for _, list := range lists {
		out = append(out, toListResponse(list))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListHandler) ByID(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	listID := r.PathValue("id")

	list, err := h.listService.ByID(user.ID, listID)
	if err != nil {
		if isNotFound(err, repository.ErrListNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "lists.not_found", "not_found")
			return
		}
		slog.Error("failed to get list", "error", err, "user_id", user.ID, "list_id", listID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	listID := r.PathValue("id")

	var req struct {
		Name  *string `json:"name"`
		Order *int    `json:"order"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.Update(user.ID, listID, req.Name, req.Order)
	if err != nil {
		if isNotFound(err, repository.ErrListNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "lists.not_found", "not_found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	listID := r.PathValue("id")

	err := h.listService.Delete(user.ID, listID)
	if err != nil {
		if isNotFound(err, repository.ErrListNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "lists.not_found", "not_found")
			return
		}
		slog.Error("failed to delete list", "error", err, "user_id", user.ID, "list_id", listID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
