package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/labpush/pkg/domain/model"
)

// LogTransport writes messages to the context logger instead of delivering them.
// Used for local development and dry runs.
type LogTransport struct{}

// NewLogTransport creates a LogTransport
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

// Send logs the message and returns a random message ID
func (t *LogTransport) Send(ctx context.Context, msg *model.PushMessage) (string, error) {
	id := uuid.NewString()
	ctxlog.From(ctx).Info("Push message (log transport)",
		"message_id", id,
		"title", msg.Title,
		"body", msg.Body,
		"data", msg.Data,
		slog.Any("target", msg.Target),
	)
	return id, nil
}

// Validate accepts any non-empty token
func (t *LogTransport) Validate(_ context.Context, target model.DeliveryTarget) error {
	if target.Token == "" {
		return model.ErrInvalidTarget
	}
	return nil
}

// Name returns "log"
func (t *LogTransport) Name() string {
	return "log"
}
