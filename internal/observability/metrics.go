// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikesTotal counts like/unlike operations by outcome.
	LikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bonds_likes_total",
		Help: "Total number of like operations by action and result",
	}, []string{"action", "result"})

	// NotificationsEnqueued counts like-notification jobs pushed to the queue.
	NotificationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bonds_notifications_enqueued_total",
		Help: "Total number of like notification jobs enqueued",
	})

	// NotificationsDelivered counts delivery attempts by outcome.
	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bonds_notifications_delivered_total",
		Help: "Total number of like notification delivery attempts by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bonds_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// InitHTTPMetrics creates the Prometheus middleware for the Fiber app.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
