package interfaces

import (
	"context"

	"github.com/m-mizutani/labpush/pkg/domain/model"
)

// PushTransport delivers a single message to a single target. Implementations
// wrap model.ErrInvalidTarget when the target is permanently invalid.
type PushTransport interface {
	// Send delivers the message and returns the transport's message identifier
	Send(ctx context.Context, msg *model.PushMessage) (string, error)

	// Validate checks whether the target can receive messages without delivering one
	Validate(ctx context.Context, target model.DeliveryTarget) error

	// Name returns a short transport identifier, e.g. "fcm"
	Name() string
}

// TransportHandle gives access to the process-wide transport once it has been initialized
type TransportHandle interface {
	// Transport returns the transport and true, or nil and false when not initialized
	Transport() (PushTransport, bool)
}
