package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heblo/internal/core/application/catalog"
	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ commands.TransitionRecorder = (*metrics.Metrics)(nil)
	_ catalog.MergeObserver       = (*metrics.Metrics)(nil)
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_RecordTransition(t *testing.T) {
	// Given
	m := metrics.New()

	// When
	m.RecordTransition(transportbox.Opened, transportbox.InTransit)
	m.RecordTransition(transportbox.Opened, transportbox.InTransit)
	m.RecordTransition(transportbox.Received, transportbox.Stocked)

	// Then
	body := scrape(t, m)
	assert.Contains(t, body, `heblo_transport_box_transitions_total{from="Opened",to="InTransit"} 2`)
	assert.Contains(t, body, `heblo_transport_box_transitions_total{from="Received",to="Stocked"} 1`)
}

func TestMetrics_ObserveMerge(t *testing.T) {
	m := metrics.New()

	m.ObserveMerge("debounce", 20*time.Millisecond, nil)
	m.ObserveMerge("max_interval", time.Second, errors.New("boom"))
	m.ObserveSkippedMerge("debounce")

	body := scrape(t, m)
	assert.Contains(t, body, `heblo_catalog_merges_total{result="success",trigger="debounce"} 1`)
	assert.Contains(t, body, `heblo_catalog_merges_total{result="failure",trigger="max_interval"} 1`)
	assert.Contains(t, body, `heblo_catalog_merge_duration_seconds_count{trigger="debounce"} 1`)
	assert.Contains(t, body, `heblo_catalog_skipped_merges_total{trigger="debounce"} 1`)
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	first := metrics.New()
	second := metrics.New()

	first.RecordTransition(transportbox.New, transportbox.Opened)

	assert.Contains(t, scrape(t, first), `from="New",to="Opened"`)
	assert.NotContains(t, scrape(t, second), `from="New",to="Opened"`)
}
