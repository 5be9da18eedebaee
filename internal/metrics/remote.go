package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the three remote collaborators: the embedding
// endpoint, the chat-completion endpoint, and the vector index.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "librarian",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "librarian",
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"model"},
	)

	VectorStoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "vectorstore_requests_total",
			Help:      "Total number of vector index requests",
		},
		[]string{"op", "status"},
	)

	VectorStoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "librarian",
			Name:      "vectorstore_request_duration_seconds",
			Help:      "Vector index request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)
)

var remoteMetricsRegistered bool

// RegisterRemoteMetrics registers remote-call metrics. Must be called once from main.
func RegisterRemoteMetrics() {
	if remoteMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatRequestDuration)
	prometheus.MustRegister(VectorStoreRequestsTotal)
	prometheus.MustRegister(VectorStoreRequestDuration)
	remoteMetricsRegistered = true
}
