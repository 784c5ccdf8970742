package model

import "time"

// WebhookEvent represents a webhook delivery received from GitLab
type WebhookEvent struct {
	ID         string           // Retrieved from X-Gitlab-Event-UUID header
	HookName   string           // Retrieved from X-Gitlab-Event header, may be empty
	Event      SourceEvent      // Decoded payload
	Targets    []DeliveryTarget // Recipients of the notification
	ReceivedAt time.Time        // Time when the event was received
}

// IsSupportedEvent checks if the event will produce a notification
func (e *WebhookEvent) IsSupportedEvent() bool {
	if e.Event == nil {
		return false
	}
	_, unsupported := e.Event.(*UnsupportedEvent)
	return !unsupported
}

// Kind returns the discriminant of the carried event, or empty when none
func (e *WebhookEvent) Kind() EventKind {
	if e.Event == nil {
		return ""
	}
	return e.Event.Kind()
}

// WebhookResult is the outcome of processing one webhook delivery
type WebhookResult struct {
	Notification *Notification     // nil when no notification was needed
	Deliveries   []*DeliveryResult // one per target, in target order
}

// Skipped reports that the event kind produced no notification
func (r *WebhookResult) Skipped() bool {
	return r.Notification == nil
}

// FirstFailure returns the first failed delivery, or nil if all succeeded
func (r *WebhookResult) FirstFailure() *DeliveryResult {
	for _, d := range r.Deliveries {
		if !d.Success {
			return d
		}
	}
	return nil
}
