package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/utils/async"
)

// Notifier delivers notifications through the process-wide push transport
type Notifier struct {
	handle interfaces.TransportHandle
}

// NewNotifier creates a Notifier bound to a transport handle
func NewNotifier(handle interfaces.TransportHandle) *Notifier {
	return &Notifier{
		handle: handle,
	}
}

// Dispatch makes exactly one delivery attempt of the notification to the target.
// It never returns an error: every failure, including a panicking transport,
// is reported in the result.
func (n *Notifier) Dispatch(ctx context.Context, notification *model.Notification, target model.DeliveryTarget) (result *model.DeliveryResult) {
	logger := ctxlog.From(ctx).With("event_type", notification.EventType)

	transport, ok := n.handle.Transport()
	if !ok {
		logger.Error("Push transport is not initialized")
		return &model.DeliveryResult{
			Success:   false,
			ErrorKind: model.ErrorKindTransportUninitialized,
			Error:     "push transport is not initialized",
		}
	}

	msg := &model.PushMessage{
		Title:  notification.Title,
		Body:   notification.Message,
		Data:   pushData(notification),
		Target: target,
	}

	logger.Debug("Dispatching notification",
		"transport", transport.Name(),
		slog.Any("target", target),
	)

	defer func() {
		if r := recover(); r != nil {
			result = &model.DeliveryResult{
				Success:   false,
				ErrorKind: model.ErrorKindTransportError,
				Error:     fmt.Sprintf("transport panicked: %v", r),
			}
			logger.Error("Push transport panicked", "recover", r)
		}
	}()

	messageID, err := transport.Send(ctx, msg)
	if err != nil {
		kind := classifyTransportError(err)
		logger.Warn("Failed to deliver notification",
			"transport", transport.Name(),
			"success", false,
			"error_kind", kind,
			"error", err,
		)
		return &model.DeliveryResult{
			Success:   false,
			ErrorKind: kind,
			Error:     err.Error(),
		}
	}

	logger.Info("Notification delivered",
		"transport", transport.Name(),
		"success", true,
		"message_id", messageID,
	)

	return &model.DeliveryResult{
		Success:   true,
		MessageID: messageID,
	}
}

// DispatchMany delivers the notification to every target concurrently. Results
// are returned in the order of targets and one failure never affects another target.
func (n *Notifier) DispatchMany(ctx context.Context, notification *model.Notification, targets []model.DeliveryTarget) []*model.DeliveryResult {
	return async.Map(ctx, targets,
		func(ctx context.Context, target model.DeliveryTarget) *model.DeliveryResult {
			return n.Dispatch(ctx, notification, target)
		},
		func(_ model.DeliveryTarget, r any) *model.DeliveryResult {
			return &model.DeliveryResult{
				Success:   false,
				ErrorKind: model.ErrorKindTransportError,
				Error:     fmt.Sprintf("dispatch panicked: %v", r),
			}
		},
	)
}

// Validate checks the target with the transport without delivering a message
func (n *Notifier) Validate(ctx context.Context, target model.DeliveryTarget) bool {
	transport, ok := n.handle.Transport()
	if !ok {
		return false
	}

	if err := transport.Validate(ctx, target); err != nil {
		ctxlog.From(ctx).Warn("Delivery target rejected by transport",
			"transport", transport.Name(),
			"error_kind", classifyTransportError(err),
			"error", err,
		)
		return false
	}
	return true
}

func classifyTransportError(err error) model.ErrorKind {
	if errors.Is(err, model.ErrInvalidTarget) {
		return model.ErrorKindInvalidTarget
	}
	return model.ErrorKindTransportError
}

// pushData flattens the notification into transport metadata. Absent deep link
// fields are omitted rather than sent empty.
func pushData(n *model.Notification) map[string]string {
	data := map[string]string{
		"eventType":      string(n.EventType),
		"repositoryName": n.RepositoryName,
		"repositoryUrl":  n.RepositoryURL,
		"event_type":     string(n.DeepLink.EventType),
	}

	link := n.DeepLink
	putInt(data, "project_id", link.ProjectID)
	if link.CommitSHA != nil && *link.CommitSHA != "" {
		data["commit_sha"] = *link.CommitSHA
	}
	putInt(data, "issue_iid", link.IssueIID)
	putInt(data, "merge_request_iid", link.MergeRequestIID)
	putInt(data, "pipeline_id", link.PipelineID)

	return data
}

func putInt(data map[string]string, key string, v *int64) {
	if v != nil {
		data[key] = strconv.FormatInt(*v, 10)
	}
}
