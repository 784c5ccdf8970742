package metrics

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/domain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts webhook events and delivery outcomes
type Recorder struct {
	registry   *prometheus.Registry
	deliveries *prometheus.CounterVec
	skipped    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: types.ServiceName,
			Name:      "deliveries_total",
			Help:      "Push notification delivery attempts by event kind and outcome.",
		}, []string{"event_kind", "success", "error_kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: types.ServiceName,
			Name:      "events_skipped_total",
			Help:      "Webhook events that produced no notification, by object kind.",
		}, []string{"event_kind"}),
	}

	r.registry.MustRegister(r.deliveries, r.skipped)
	return r
}

// RecordDelivery counts one delivery attempt
func (r *Recorder) RecordDelivery(kind model.EventKind, result *model.DeliveryResult) {
	r.deliveries.WithLabelValues(
		string(kind),
		strconv.FormatBool(result.Success),
		string(result.ErrorKind),
	).Inc()
}

// unsupportedKindLabel replaces any object_kind GitLab does not document
const unsupportedKindLabel = "unsupported"

// object_kind values sent by GitLab that have no notification template
var knownSkippedKinds = map[model.EventKind]struct{}{
	"note":          {},
	"wiki_page":     {},
	"build":         {},
	"deployment":    {},
	"feature_flag":  {},
	"release":       {},
	"emoji":         {},
	"access_token":  {},
	"vulnerability": {},
}

// RecordSkipped counts one event that produced no notification. The kind
// comes from the request body, so only known GitLab kinds get their own label.
func (r *Recorder) RecordSkipped(kind model.EventKind) {
	r.skipped.WithLabelValues(skippedKindLabel(kind)).Inc()
}

func skippedKindLabel(kind model.EventKind) string {
	if _, ok := knownSkippedKinds[kind]; ok {
		return string(kind)
	}
	for _, k := range model.SupportedEventKinds {
		if k == kind {
			return string(kind)
		}
	}
	return unsupportedKindLabel
}

// Handler serves the metrics in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
