package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footballiq_answers_graded_total",
			Help: "Trivia answers graded, by result",
		},
		[]string{"result"},
	)

	GamesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footballiq_games_completed_total",
			Help: "Game sessions finished, by final status",
		},
		[]string{"status"},
	)

	SQLQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footballiq_sql_queries_total",
			Help: "Sandbox SQL queries, by outcome",
		},
		[]string{"outcome"},
	)

	SQLQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "footballiq_sql_query_duration_seconds",
			Help:    "Duration of sandbox SQL executions",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var initOnce sync.Once

// Init 重复调用是安全的（测试中会多次构建 App）
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AnswersGraded)
		prometheus.MustRegister(GamesCompleted)
		prometheus.MustRegister(SQLQueries)
		prometheus.MustRegister(SQLQueryDuration)
	})
}

func ObserveAnswer(correct bool) {
	if correct {
		AnswersGraded.WithLabelValues("correct").Inc()
		return
	}
	AnswersGraded.WithLabelValues("incorrect").Inc()
}

func ObserveSQL(outcome string, d time.Duration) {
	SQLQueries.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		SQLQueryDuration.Observe(d.Seconds())
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
