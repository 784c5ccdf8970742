package errs

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs the error and reports it to Sentry when a Sentry client is configured.
// Values attached with goerr.V are sent as Sentry tags.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)

	if sentry.CurrentHub().Client() != nil {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			if e := goerr.Unwrap(err); e != nil {
				for k, v := range e.Values() {
					scope.SetTag(k, fmt.Sprint(v))
				}
			}
		})
		if evID := hub.CaptureException(err); evID != nil {
			logger = logger.With("sentry_event_id", string(*evID))
		}
	}

	logger.Error("Error occurred", "error", err)
}
