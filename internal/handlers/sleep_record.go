package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/services"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/internal/store"
	"github.com/sleeplog/apiserver/types"
)

// SleepRecordHandler provides HTTP handlers for sleep records.
type SleepRecordHandler struct {
	records *services.SleepRecordService
	catalog *sleep.Catalog
	logger  *zap.Logger
}

func NewSleepRecordHandler(records *services.SleepRecordService, catalog *sleep.Catalog, logger *zap.Logger) *SleepRecordHandler {
	if catalog == nil {
		catalog = sleep.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SleepRecordHandler{records: records, catalog: catalog, logger: logger}
}

// SleepRecordRouter registers sleep record routes. Every route requires
// authentication.
func SleepRecordRouter(r chi.Router, handler *SleepRecordHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Get("/stats", handler.Stats)
	r.Route("/{recordID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
		r.Get("/recommendations", handler.Recommendations)
	})
}

// SleepRecordRequest is the body of create and update calls. Hours is not
// accepted; it is always computed from the clocks.
type SleepRecordRequest struct {
	SleepTime string `json:"sleep_time" validate:"required,clock"`
	WakeTime  string `json:"wake_time" validate:"required,clock"`
	Quality   string `json:"quality" validate:"quality"`
	Notes     string `json:"notes" validate:"max=2000"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (req SleepRecordRequest) input() types.SleepRecordInput {
	return types.SleepRecordInput{
		SleepTime: req.SleepTime,
		WakeTime:  req.WakeTime,
		Quality:   types.Quality(req.Quality),
		Notes:     req.Notes,
		Date:      req.Date,
	}
}

type RecordMutationResponse struct {
	Message string             `json:"message"`
	Record  *types.SleepRecord `json:"record,omitempty"`
}

type RecommendationsResponse struct {
	RecordID        int64                  `json:"record_id"`
	Hours           float64                `json:"hours"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

func (h *SleepRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	records, err := h.records.List(r.Context(), userID)
	if err != nil {
		h.internalError(w, "failed to list records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *SleepRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req SleepRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.records.Create(r.Context(), userID, req.input())
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecord) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []string{err.Error()}})
			return
		}
		h.internalError(w, "failed to create record", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *SleepRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.records.Get(r.Context(), userID, id)
	if err != nil {
		h.recordError(w, "failed to fetch record", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *SleepRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SleepRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.records.Update(r.Context(), userID, id, req.input())
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecord) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []string{err.Error()}})
			return
		}
		h.recordError(w, "failed to update record", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordMutationResponse{Message: "record updated", Record: &record})
}

func (h *SleepRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.records.Delete(r.Context(), userID, id); err != nil {
		h.recordError(w, "failed to delete record", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordMutationResponse{Message: "record deleted"})
}

func (h *SleepRecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	summary, err := h.records.Summary(r.Context(), userID, requestLanguage(r, h.catalog))
	if err != nil {
		h.internalError(w, "failed to summarize records", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SleepRecordHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, err := parseRecordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, recs, err := h.records.Recommendations(r.Context(), userID, id, requestLanguage(r, h.catalog))
	if err != nil {
		h.recordError(w, "failed to build recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationsResponse{
		RecordID:        record.ID,
		Hours:           record.Hours,
		Recommendations: recs,
	})
}

func (h *SleepRecordHandler) subject(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing token")
		return 0, false
	}
	return userID, true
}

// recordError maps ownership misses to 404 so other users' records are
// indistinguishable from missing ones.
func (h *SleepRecordHandler) recordError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	h.internalError(w, message, err)
}

func (h *SleepRecordHandler) internalError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}
