package config

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
	"github.com/m-mizutani/labpush/pkg/infra/fcm"
	"github.com/m-mizutani/labpush/pkg/infra/push"
	"github.com/m-mizutani/labpush/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Transport kinds
const (
	TransportFCM   = "fcm"
	TransportSlack = "slack"
	TransportLog   = "log"
)

// Transport selects and configures the push transport
type Transport struct {
	Kind     string
	Firebase Firebase
	Slack    Slack
}

// Flags returns CLI flags for transport configuration
func (c *Transport) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "transport",
			Usage:       "Push transport (fcm, slack, log)",
			Value:       TransportFCM,
			Destination: &c.Kind,
			Sources:     cli.EnvVars("LABPUSH_TRANSPORT"),
		},
	}
	flags = append(flags, c.Firebase.Flags()...)
	flags = append(flags, c.Slack.Flags()...)
	return flags
}

// Factory returns a factory that builds the configured transport. Credentials
// are only checked when the factory runs.
func (c *Transport) Factory() (push.Factory, error) {
	switch strings.ToLower(c.Kind) {
	case TransportFCM:
		return func(ctx context.Context) (interfaces.PushTransport, error) {
			client, err := fcm.New(ctx, c.Firebase.FCMConfig())
			if err != nil {
				return nil, err
			}
			return client, nil
		}, nil

	case TransportSlack:
		return func(ctx context.Context) (interfaces.PushTransport, error) {
			if c.Slack.Token == "" {
				return nil, goerr.New("slack token is required for slack transport")
			}
			return slack.New(c.Slack.Token), nil
		}, nil

	case TransportLog:
		return func(ctx context.Context) (interfaces.PushTransport, error) {
			return push.NewLogTransport(), nil
		}, nil

	default:
		return nil, goerr.New("unknown transport", goerr.V("transport", c.Kind))
	}
}
