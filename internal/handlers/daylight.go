package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/services"
	"github.com/sleeplog/apiserver/internal/sleep"
)

// DaylightHandler serves sunrise/sunset lookups.
type DaylightHandler struct {
	daylight *services.DaylightService
	catalog  *sleep.Catalog
	logger   *zap.Logger
}

func NewDaylightHandler(daylight *services.DaylightService, catalog *sleep.Catalog, logger *zap.Logger) *DaylightHandler {
	if catalog == nil {
		catalog = sleep.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DaylightHandler{daylight: daylight, catalog: catalog, logger: logger}
}

// Lookup handles GET /daylight?city=&tz=&lang=. tz is an IANA zone name
// and defaults to UTC.
func (h *DaylightHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	city := strings.TrimSpace(query.Get("city"))
	if city == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []string{"city is required"}})
		return
	}

	loc := time.UTC
	if tz := strings.TrimSpace(query.Get("tz")); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []string{"tz must be an IANA time zone"}})
			return
		}
		loc = parsed
	}

	report, err := h.daylight.Lookup(r.Context(), city, loc, requestLanguage(r, h.catalog))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCity):
			writeError(w, http.StatusBadRequest, "city is required")
		case errors.Is(err, services.ErrLocationNotFound):
			writeError(w, http.StatusNotFound, "location not found")
		case errors.Is(err, services.ErrUpstream):
			writeError(w, http.StatusBadGateway, "daylight lookup failed")
		default:
			h.logger.Error("daylight lookup failed", zap.String("city", city), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "daylight lookup failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}
