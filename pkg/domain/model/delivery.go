package model

import "errors"

// ErrInvalidTarget is returned (wrapped) by a transport when the delivery target
// is permanently invalid, e.g. an unregistered device token
var ErrInvalidTarget = errors.New("invalid delivery target")

// DeliveryTarget identifies a single recipient of the push transport
type DeliveryTarget struct {
	Token string `masq:"secret"`
}

// ErrorKind classifies why a delivery failed
type ErrorKind string

const (
	ErrorKindNone                   ErrorKind = ""
	ErrorKindUnsupportedEventKind   ErrorKind = "unsupported_event_kind"
	ErrorKindTransportUninitialized ErrorKind = "transport_uninitialized"
	ErrorKindInvalidTarget          ErrorKind = "invalid_target"
	ErrorKindTransportError         ErrorKind = "transport_error"
)

// Retryable reports whether a higher layer may try the delivery again
func (k ErrorKind) Retryable() bool {
	return k == ErrorKindTransportError
}

// DeliveryResult is the outcome of one delivery attempt
type DeliveryResult struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// PushMessage is what a transport receives for one delivery
type PushMessage struct {
	Title  string
	Body   string
	Data   map[string]string
	Target DeliveryTarget
}
