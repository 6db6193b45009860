package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	_, m := NewRegistry()

	m.Advances.WithLabelValues("advanced").Inc()
	m.Advances.WithLabelValues("advanced").Inc()
	m.Advances.WithLabelValues("busy").Inc()
	m.ActiveSessions.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Advances.WithLabelValues("advanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Advances.WithLabelValues("busy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestObservePersist(t *testing.T) {
	_, m := NewRegistry()

	m.ObservePersist("memory", time.Now(), nil)
	m.ObservePersist("memory", time.Now(), errors.New("down"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.PersistDuration))
}

func TestHandler(t *testing.T) {
	reg, m := NewRegistry()
	m.Answers.WithLabelValues("default").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `surveyflow_answers_total{catalog="default"} 1`))
}
