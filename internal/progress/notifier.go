package progress

import (
	"go.uber.org/zap"
)

// Notifier delivers events to whatever subscriber is currently bound for a
// job. Delivery is fire-and-forget: when nobody is bound the event is
// dropped, and events are never buffered for a subscriber that connects
// late. A delivery failure is logged and swallowed so that it can never
// break the job emitting it.
type Notifier struct {
	registry *Registry
}

func NewNotifier(registry *Registry) *Notifier {
	return &Notifier{registry: registry}
}

// Notify looks up the subscriber for the interview and attempts delivery.
// Events for one interview are delivered in the order Notify is called,
// provided a single goroutine emits them.
func (n *Notifier) Notify(interviewID int64, event Event) {
	sink, ok := n.registry.Lookup(interviewID)
	if !ok {
		return
	}

	if err := sink.Send(event); err != nil {
		zap.S().Named("progress").Warnw("failed to deliver progress event",
			"interview_id", interviewID,
			"status", event.Status,
			"error", err,
		)
	}
}
