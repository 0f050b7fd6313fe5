package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordExplanation(t *testing.T) {
	found := testutil.ToFloat64(ExplanationsTotal.WithLabelValues("found"))
	none := testutil.ToFloat64(ExplanationsTotal.WithLabelValues("none"))

	RecordExplanation(true)
	RecordExplanation(false)
	RecordExplanation(false)

	assert.Equal(t, found+1, testutil.ToFloat64(ExplanationsTotal.WithLabelValues("found")))
	assert.Equal(t, none+2, testutil.ToFloat64(ExplanationsTotal.WithLabelValues("none")))
}

func TestSetSnapshotSize(t *testing.T) {
	SetSnapshotSize(610, 9700, 9742, 24, 2*time.Second)

	assert.Equal(t, 610.0, testutil.ToFloat64(SnapshotEntities.WithLabelValues("user")))
	assert.Equal(t, 9742.0, testutil.ToFloat64(SnapshotEntities.WithLabelValues("catalog")))
	assert.Equal(t, 2.0, testutil.ToFloat64(SnapshotLoadDuration))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/movies/{id}", "418"))
	for _, p := range []string{"/movies/1", "/movies/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/movies/{id}", "418")))
}
