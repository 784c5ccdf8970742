package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	gitlabcontroller "github.com/m-mizutani/labpush/pkg/controller/gitlab"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/usecase"
	"github.com/m-mizutani/labpush/pkg/utils/async"
	"github.com/m-mizutani/labpush/pkg/utils/errs"
	gl "gitlab.com/gitlab-org/api/client-go"
)

const (
	// HeaderTargetToken carries a device token. It may be repeated or hold a comma separated list.
	HeaderTargetToken = "X-FCM-Token"
	// QueryTargetToken is used when the header is absent
	QueryTargetToken = "token"

	headerGitlabToken     = "X-Gitlab-Token"
	headerGitlabEventUUID = "X-Gitlab-Event-UUID"
)

// messageResponse is the body of a successful webhook response
type messageResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Results []*model.DeliveryResult `json:"results,omitempty"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// WebhookHandler handles GitLab webhooks
type WebhookHandler struct {
	secret    string
	webhookUC interfaces.WebhookUseCase
	async     bool
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, webhookUC interfaces.WebhookUseCase, asyncDispatch bool) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		webhookUC: webhookUC,
		async:     asyncDispatch,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	if !h.verifyToken(r.Header.Get(headerGitlabToken)) {
		logger.Warn("Invalid webhook token")
		writeError(w, r, http.StatusUnauthorized, "invalid webhook token")
		return
	}

	targets := extractTargets(r)
	if len(targets) == 0 {
		logger.Warn("Missing delivery target")
		writeError(w, r, http.StatusBadRequest, "Missing FCM token in X-FCM-Token header")
		return
	}

	source, err := gitlabcontroller.DecodeEvent(body)
	if err != nil {
		logger.Warn("Failed to decode webhook payload", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	event := &model.WebhookEvent{
		ID:         r.Header.Get(headerGitlabEventUUID),
		HookName:   string(gl.HookEventType(r)),
		Event:      source,
		Targets:    targets,
		ReceivedAt: time.Now(),
	}

	// Unsupported kinds are handled inline so the caller sees they were skipped
	if h.async && event.IsSupportedEvent() {
		async.Dispatch(ctx, func(ctx context.Context) error {
			_, err := h.webhookUC.ProcessEvent(ctx, event)
			return err
		})
		writeJSON(w, r, http.StatusAccepted, &messageResponse{
			Success: true,
			Message: "Notification queued",
		})
		return
	}

	result, err := h.webhookUC.ProcessEvent(ctx, event)
	if err != nil {
		if errors.Is(err, usecase.ErrNoTarget) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		errs.Handle(ctx, err)
		writeError(w, r, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	if result.Skipped() {
		writeJSON(w, r, http.StatusOK, &messageResponse{
			Success: true,
			Message: "No notification needed",
		})
		return
	}

	if failure := result.FirstFailure(); failure != nil {
		writeError(w, r, statusForDelivery(failure.ErrorKind), "Failed to process webhook: "+failure.Error)
		return
	}

	writeJSON(w, r, http.StatusOK, &messageResponse{
		Success: true,
		Message: "Notification sent successfully",
		Results: result.Deliveries,
	})
}

// ValidateToken reports whether the first delivery target is accepted by the transport
func (h *WebhookHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	if !h.verifyToken(r.Header.Get(headerGitlabToken)) {
		writeError(w, r, http.StatusUnauthorized, "invalid webhook token")
		return
	}

	targets := extractTargets(r)
	if len(targets) == 0 {
		writeError(w, r, http.StatusBadRequest, "Missing FCM token in X-FCM-Token header")
		return
	}

	writeJSON(w, r, http.StatusOK, &validateResponse{
		Valid: h.webhookUC.ValidateTarget(r.Context(), targets[0]),
	})
}

// verifyToken compares the X-Gitlab-Token header with the configured secret.
// Every request passes when no secret is configured.
func (h *WebhookHandler) verifyToken(token string) bool {
	if h.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

func extractTargets(r *http.Request) []model.DeliveryTarget {
	var targets []model.DeliveryTarget
	for _, v := range r.Header.Values(HeaderTargetToken) {
		for _, token := range strings.Split(v, ",") {
			if token = strings.TrimSpace(token); token != "" {
				targets = append(targets, model.DeliveryTarget{Token: token})
			}
		}
	}

	if len(targets) == 0 {
		if token := strings.TrimSpace(r.URL.Query().Get(QueryTargetToken)); token != "" {
			targets = append(targets, model.DeliveryTarget{Token: token})
		}
	}

	return targets
}

func statusForDelivery(kind model.ErrorKind) int {
	switch kind {
	case model.ErrorKindTransportUninitialized:
		return http.StatusServiceUnavailable
	case model.ErrorKindInvalidTarget:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
