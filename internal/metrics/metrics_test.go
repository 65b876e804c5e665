package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	m := New()
	m.RecordTransition("assigned")
	m.RecordTransition("assigned")
	m.RecordTransition("retired")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.assignmentTransitions.WithLabelValues("assigned")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.assignmentTransitions.WithLabelValues("retired")))
}

func TestRecordImport(t *testing.T) {
	m := New()
	m.RecordImport(9, 1, 2*time.Second)

	assert.Equal(t, float64(9), testutil.ToFloat64(m.importRows.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.importRows.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("assigned")
		m.RecordImport(1, 0, time.Second)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `inventario_http_requests_total{method="GET",route="/ping",status="200"} 1`), body)
}
