package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/metrics"
)

func TestPrometheusUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Prometheus())
	r.GET("/news/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/news/1", "/news/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", target, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/news/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
