package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStatEvent(t *testing.T) {
	before := testutil.ToFloat64(StatEvents.WithLabelValues("idea", "true"))
	RecordStatEvent("idea", true)
	assert.Equal(t, before+1, testutil.ToFloat64(StatEvents.WithLabelValues("idea", "true")))
}

func TestRecordTasksCreatedIgnoresEmptyBatches(t *testing.T) {
	before := testutil.ToFloat64(TasksCreated.WithLabelValues("extract"))
	RecordTasksCreated("extract", 0)
	RecordTasksCreated("extract", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(TasksCreated.WithLabelValues("extract")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordInsight("summarize")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "insighthub_insight_requests_total")
}
