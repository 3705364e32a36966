package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
	translator    *i18n.Translator
}

func NewExportHandler(exportService *service.ExportService, translator *i18n.Translator) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		translator:    translator,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	snapshot, err := h.exportService.Export(user.ID)
	if err != nil {
		slog.Error("export failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=habits-export.json")
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	mode, err := service.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_mode")
		return
	}

	var snapshot service.Snapshot
	if !decodeJSON(w, r, &snapshot) {
		return
	}

	err = h.exportService.Import(user.ID, &snapshot, mode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSnapshot) {
			writeLocalizedError(w, r, h.translator, http.StatusBadRequest, "import.invalid_snapshot", "invalid_snapshot")
			return
		}
		slog.Error("import failed", "error", err, "user_id", user.ID, "mode", mode)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "imported",
		"mode":   mode,
		"lists":  len(snapshot.Lists),
		"habits": len(snapshot.Habits),
	})
}
