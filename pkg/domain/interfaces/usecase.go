package interfaces

import (
	"context"

	"github.com/m-mizutani/labpush/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent converts the event into a notification and delivers it to the event's targets
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) (*model.WebhookResult, error)

	// ValidateTarget reports whether the target can receive notifications
	ValidateTarget(ctx context.Context, target model.DeliveryTarget) bool
}

// DispatchRecorder observes delivery outcomes
type DispatchRecorder interface {
	RecordDelivery(kind model.EventKind, result *model.DeliveryResult)
	RecordSkipped(kind model.EventKind)
}
