package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	interviewAPI = "interview_api"

	transcriptionsTotal = "transcriptions_total"
	scoringCallsTotal   = "scoring_calls_total"
	ActiveSubscriptions = "active_subscriptions"

	resultLabel = "result"
)

var transcriptionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: interviewAPI,
		Name:      transcriptionsTotal,
		Help:      "number of artifact transcriptions partitioned by result",
	},
	[]string{resultLabel},
)

var scoringCallsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: interviewAPI,
		Name:      scoringCallsTotal,
		Help:      "number of scoring model calls partitioned by result",
	},
	[]string{resultLabel},
)

var activeSubscriptionsMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: interviewAPI,
		Name:      ActiveSubscriptions,
		Help:      "number of currently connected progress subscribers",
	},
)

func IncreaseTranscriptionsTotalMetric(result string) {
	transcriptionsTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseScoringCallsTotalMetric(result string) {
	scoringCallsTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func SubscriberConnected() {
	activeSubscriptionsMetric.Inc()
}

func SubscriberDisconnected() {
	activeSubscriptionsMetric.Dec()
}

type PrometheusMetricsHandler struct {
}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	prometheus.MustRegister(transcriptionsTotalMetric)
	prometheus.MustRegister(scoringCallsTotalMetric)
	prometheus.MustRegister(activeSubscriptionsMetric)

	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
