// Package metrics centralises the metric names and tag shapes emitted by the
// webhook pipeline so services do not invent their own.
package metrics

import (
	"time"

	"github.com/archlens/scan-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
)

// DeliveryMetric captures details about one processed webhook delivery.
type DeliveryMetric struct {
	EventType string
	Result    string
	ErrorType string
	Duration  time.Duration
}

// EmitDelivery emits the per-delivery counter and duration metrics.
func EmitDelivery(sink statsd.Sink, in DeliveryMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"event_type": in.EventType,
		"result":     in.Result,
	}
	if in.ErrorType != "" {
		tags["error_type"] = in.ErrorType
	}

	sink.Count("webhook.delivery", 1, tags)

	if in.Duration > 0 {
		sink.Timing("webhook.duration", in.Duration, CloneTags(tags))
	}
}

// EmitScanQueued emits the counter incremented when a scan lands on the queue.
func EmitScanQueued(sink statsd.Sink, scanType, priority string) {
	if sink == nil {
		return
	}
	sink.Count("scan.queued", 1, map[string]string{
		"scan_type": scanType,
		"priority":  priority,
	})
}

// EmitRequeued emits the counter for orphaned scans restored by the reconciler.
func EmitRequeued(sink statsd.Sink, count int) {
	if sink == nil || count <= 0 {
		return
	}
	sink.Count("scan.requeued", int64(count), nil)
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
