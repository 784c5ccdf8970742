package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/utils/errs"
)

// ErrNoTarget is returned when a webhook event carries no delivery target
var ErrNoTarget = goerr.New("no delivery target")

type webhookUseCase struct {
	notifier *Notifier
	recorder interfaces.DispatchRecorder
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithRecorder sets a recorder that observes every delivery outcome
func WithRecorder(recorder interfaces.DispatchRecorder) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.recorder = recorder
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(notifier *Notifier, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		notifier: notifier,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent parses the event and delivers the resulting notification to every target.
// Delivery failures are reported in the result, not as an error.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) (*model.WebhookResult, error) {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"hook", event.HookName,
		"kind", event.Kind(),
		"targets", len(event.Targets),
		"supported", event.IsSupportedEvent(),
	)

	notification := Parse(event.Event)
	if notification == nil {
		logger.Warn("Unsupported event type", "kind", event.Kind())
		uc.recorder.RecordSkipped(event.Kind())
		return &model.WebhookResult{}, nil
	}

	if len(event.Targets) == 0 {
		return nil, goerr.Wrap(ErrNoTarget, "cannot dispatch notification",
			goerr.V("id", event.ID),
			goerr.V("kind", event.Kind()),
		)
	}

	deliveries := uc.notifier.DispatchMany(ctx, notification, event.Targets)

	for i, d := range deliveries {
		uc.recorder.RecordDelivery(notification.EventType, d)

		if d.ErrorKind == model.ErrorKindTransportError {
			errs.Handle(ctx, goerr.New("failed to deliver notification",
				goerr.V("id", event.ID),
				goerr.V("kind", notification.EventType),
				goerr.V("target_index", i),
				goerr.V("transport_error", d.Error),
			))
		}
	}

	result := &model.WebhookResult{
		Notification: notification,
		Deliveries:   deliveries,
	}

	if failure := result.FirstFailure(); failure != nil {
		logger.Warn("Notification not delivered to every target",
			"kind", notification.EventType,
			"error_kind", failure.ErrorKind,
		)
	} else {
		logger.Info("Notification sent successfully", "kind", notification.EventType)
	}

	return result, nil
}

// ValidateTarget reports whether the transport accepts the target
func (uc *webhookUseCase) ValidateTarget(ctx context.Context, target model.DeliveryTarget) bool {
	return uc.notifier.Validate(ctx, target)
}

type nopRecorder struct{}

func (nopRecorder) RecordDelivery(model.EventKind, *model.DeliveryResult) {}
func (nopRecorder) RecordSkipped(model.EventKind) {}
