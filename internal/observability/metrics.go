package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microchat_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration records request latency by route template and method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "microchat_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// MessagesPosted counts posts by kind (message, system, comment).
	MessagesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microchat_messages_posted_total",
		Help: "Total number of posts written",
	}, []string{"kind"})

	// ChatsCreated counts chats by kind.
	ChatsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microchat_chats_created_total",
		Help: "Total number of chats created",
	}, []string{"kind"})

	// InvitationsResolved counts invitations by outcome (sent, accepted, declined).
	InvitationsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microchat_invitations_total",
		Help: "Total number of invitation events by outcome",
	}, []string{"outcome"})

	// FeedCacheLookups counts feed cache lookups by result (hit, miss, error).
	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microchat_feed_cache_lookups_total",
		Help: "Feed cache lookups by result",
	}, []string{"result"})
)
