package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/sleep-records/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/sleep-records/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sleep-records/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/sleep-records/{id}", "404"))

	assert.Equal(t, 3.0, after-before)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(recordWrites.WithLabelValues("create"))
	RecordWrite("create")
	assert.Equal(t, 1.0, testutil.ToFloat64(recordWrites.WithLabelValues("create"))-before)

	beforeOK := testutil.ToFloat64(exports.WithLabelValues("true"))
	RecordExport(0, true)
	RecordExport(50*time.Millisecond, true)
	assert.Equal(t, 2.0, testutil.ToFloat64(exports.WithLabelValues("true"))-beforeOK)

	RecordDaylightLookup("cached")
	assert.GreaterOrEqual(t, testutil.ToFloat64(daylightLookups.WithLabelValues("cached")), 1.0)
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordWrite("delete")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sleeplog_records_writes_total"))
}
