package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ArticlesPublished counts articles created since process start.
	ArticlesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_articles_published_total",
		Help: "Total number of articles published",
	})

	// CommentsPosted counts comments created since process start.
	CommentsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_posted_total",
		Help: "Total number of comments posted",
	})

	// ReactionsRecorded counts like, dislike and favorite toggles by kind.
	ReactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_reactions_recorded_total",
		Help: "Total number of article reactions recorded",
	}, []string{"kind"})

	// EmailsSent counts outbound emails by kind and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_emails_sent_total",
		Help: "Total number of emails sent by kind and outcome",
	}, []string{"kind", "outcome"})
)

