package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "survey_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "route"})
	RejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_rejections_total",
		Help: "Requests rejected by validation or data rules, by error kind",
	}, []string{"kind"})
	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_uploads_total",
		Help: "File uploads by directory and result",
	}, []string{"dir", "result"})
	UploadBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_upload_bytes_total",
		Help: "Bytes stored by successful uploads",
	}, []string{"dir"})
	FilesSweptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_files_swept_total",
		Help: "Queued file deletions processed by the sweeper, by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RejectionsTotal)
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(UploadBytes)
	prometheus.MustRegister(FilesSweptTotal)
}

func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request counts and durations labelled by the matched route pattern
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.WithLabelValues(method, route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
