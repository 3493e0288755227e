package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

func TestMetricsRecordsOperations(t *testing.T) {
	m, err := NewMetrics("test")
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	aggregates.Observe(m, "materials.create", time.Now(), nil)
	aggregates.Observe(m, "materials.create", time.Now(), apierr.StoreConflict("materials.create", errors.New("40001")))

	if got := testutil.ToFloat64(m.opTotal.WithLabelValues("materials.create", "success")); got != 1 {
		t.Fatalf("success count: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.opTotal.WithLabelValues("materials.create", "store_conflict")); got != 1 {
		t.Fatalf("conflict status count: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.conflicts.WithLabelValues("materials.create")); got != 1 {
		t.Fatalf("conflicts: want 1 got %v", got)
	}
}

func TestMetricsHandlerExposesAPI(t *testing.T) {
	m, err := NewMetrics("test")
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.ObserveAPI("GET", "/api/apt/:pid/materials", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `test_http_requests_total{method="GET",route="/api/apt/:pid/materials",status="200"} 1`) {
		t.Fatalf("missing request counter in exposition")
	}
}
