// Package metrics 提供Prometheus监控指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunban_http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lunban_http_request_duration_seconds",
		Help:    "HTTP请求延迟",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"method", "path"})

	scheduleGenerationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunban_schedule_generation_total",
		Help: "排班生成次数",
	}, []string{"goal", "status"})

	scheduleGenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lunban_schedule_generation_duration_seconds",
		Help:    "排班生成延迟",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
	}, []string{"goal"})

	optimizerIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lunban_optimizer_iterations_total",
		Help: "优化器迭代次数",
	}, []string{"goal"})

	solutionScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lunban_solution_score",
		Help: "排班方案质量分数",
	}, []string{"department_id"})

	hardViolations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lunban_hard_violations",
		Help: "最近一次排班的硬约束违反数",
	}, []string{"department_id"})
)

// Handler 返回Prometheus指标HTTP处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest 记录请求指标
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordScheduleGeneration 记录排班生成指标
func RecordScheduleGeneration(goal string, success bool, iterations int, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	scheduleGenerationTotal.WithLabelValues(goal, status).Inc()
	scheduleGenerationDuration.WithLabelValues(goal).Observe(duration.Seconds())
	optimizerIterations.WithLabelValues(goal).Add(float64(iterations))
}

// RecordScheduleQuality 记录排班质量指标
func RecordScheduleQuality(departmentID string, score int, hardCount int) {
	solutionScore.WithLabelValues(departmentID).Set(float64(score))
	hardViolations.WithLabelValues(departmentID).Set(float64(hardCount))
}
