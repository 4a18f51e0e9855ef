package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/services"
	"github.com/sleeplog/apiserver/types"
)

// ExportHandler starts and downloads record exports.
type ExportHandler struct {
	exports *services.ExportService
	logger  *zap.Logger
}

func NewExportHandler(exports *services.ExportService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, logger: logger}
}

// ExportRouter registers export routes behind authMiddleware.
func ExportRouter(r chi.Router, handler *ExportHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)
	r.Post("/", handler.Create)
	r.Get("/{exportID}", handler.Download)
}

// Create answers 202 when the export was queued and 201 when it was
// generated inline.
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	export, err := h.exports.Request(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrBrokerUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "export queue unavailable")
			return
		}
		h.logger.Error("export request failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create export")
		return
	}

	status := http.StatusAccepted
	if export.Status == types.ExportReady {
		status = http.StatusCreated
	}
	writeJSON(w, status, export)
}

// Download streams a finished export document.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	exportID := chi.URLParam(r, "exportID")

	body, err := h.exports.Open(r.Context(), userID, exportID)
	if err != nil {
		if errors.Is(err, services.ErrExportNotFound) {
			writeError(w, http.StatusNotFound, "export not found")
			return
		}
		h.logger.Error("open export failed", zap.String("export_id", exportID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch export")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="sleep-records-`+exportID+`.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream export failed", zap.String("export_id", exportID), zap.Error(err))
	}
}
