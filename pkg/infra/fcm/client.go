package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"google.golang.org/api/option"
)

// DefaultAndroidChannelID is the Android notification channel the mobile app registers
const DefaultAndroidChannelID = "gitlab_notifications"

// Sender is the subset of *messaging.Client used by Client
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendDryRun(ctx context.Context, message *messaging.Message) (string, error)
}

// Config holds Firebase credentials
type Config struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON []byte
	ChannelID       string
}

// Client delivers notifications through Firebase Cloud Messaging
type Client struct {
	sender    Sender
	channelID string
}

// New creates a Client authenticated with the given Firebase credentials
func New(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Firebase app",
			goerr.V("project_id", cfg.ProjectID))
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firebase messaging client",
			goerr.V("project_id", cfg.ProjectID))
	}

	return NewWithSender(msgClient, cfg.ChannelID), nil
}

// NewWithSender creates a Client on top of an existing sender
func NewWithSender(sender Sender, channelID string) *Client {
	if channelID == "" {
		channelID = DefaultAndroidChannelID
	}
	return &Client{
		sender:    sender,
		channelID: channelID,
	}
}

// Send delivers the message to one registration token
func (c *Client) Send(ctx context.Context, msg *model.PushMessage) (string, error) {
	id, err := c.sender.Send(ctx, c.buildMessage(msg))
	if err != nil {
		if messaging.IsUnregistered(err) {
			return "", goerr.Wrap(model.ErrInvalidTarget, err.Error())
		}
		return "", goerr.Wrap(err, "failed to send FCM message")
	}
	return id, nil
}

// Validate sends a data-only dry-run message to the token
func (c *Client) Validate(ctx context.Context, target model.DeliveryTarget) error {
	_, err := c.sender.SendDryRun(ctx, &messaging.Message{
		Token: target.Token,
		Data:  map[string]string{"test": "true"},
	})
	if err != nil {
		return goerr.Wrap(model.ErrInvalidTarget, err.Error())
	}
	return nil
}

// Name returns "fcm"
func (c *Client) Name() string {
	return "fcm"
}

func (c *Client) buildMessage(msg *model.PushMessage) *messaging.Message {
	badge := 1
	data := msg.Data
	if data == nil {
		data = map[string]string{}
	}

	return &messaging.Message{
		Token: msg.Target.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: c.channelID,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Badge: &badge,
					Sound: "default",
				},
			},
		},
	}
}
