package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultSuccess, Result(nil))
	assert.Equal(t, ResultFailed, Result(errors.New("x")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(TasksTriggered.WithLabelValues("pdf.generate", ResultSuccess))
	IncrementTaskTriggered("pdf.generate", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(TasksTriggered.WithLabelValues("pdf.generate", ResultSuccess)))

	before = testutil.ToFloat64(SequenceRollbacks.WithLabelValues("quote", "false"))
	IncrementSequenceRollback("quote", false)
	assert.Equal(t, before+1, testutil.ToFloat64(SequenceRollbacks.WithLabelValues("quote", "false")))

	before = testutil.ToFloat64(WebhooksReceived.WithLabelValues("shop", "accepted"))
	IncrementWebhook("shop", "accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(WebhooksReceived.WithLabelValues("shop", "accepted")))
}

func TestHandler(t *testing.T) {
	RecordHTTPRequestDuration("GET", "/api/v1/sales/quotes", "200", 12*time.Millisecond)
	RecordTaskDuration("price.recalculate", nil, time.Second)
	RecordPDFRender("quote", errors.New("boom"), time.Second)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "carbon_http_request_duration_seconds")
	assert.Contains(t, body, `carbon_task_duration_seconds_count{result="success",type="price.recalculate"}`)
	assert.Contains(t, body, `carbon_pdf_render_duration_seconds_count{doc_type="quote",result="failed"}`)
}
