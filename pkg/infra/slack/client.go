package slack

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/slack-go/slack"
)

// API is the subset of *slack.Client used by Client
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
}

// errors returned by the Slack API that mean the channel will never accept messages
var invalidChannelErrors = []string{
	"channel_not_found",
	"is_archived",
	"not_in_channel",
	"invalid_channel",
}

// Client delivers notifications as Slack messages. The delivery target token is a channel ID.
type Client struct {
	api API
}

// New creates a Client authenticated with a bot token
func New(token string) *Client {
	return NewWithAPI(slack.New(token))
}

// NewWithAPI creates a Client on top of an existing API implementation
func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// Send posts the message to the target channel and returns the message timestamp
func (c *Client) Send(ctx context.Context, msg *model.PushMessage) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, msg.Target.Token,
		slack.MsgOptionText(msg.Title, false),
		slack.MsgOptionAttachments(buildAttachment(msg)),
	)
	if err != nil {
		return "", wrapError(err, "failed to post Slack message")
	}
	return ts, nil
}

// Validate checks that the channel exists and is visible to the bot
func (c *Client) Validate(ctx context.Context, target model.DeliveryTarget) error {
	ch, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: target.Token,
	})
	if err != nil {
		return wrapError(err, "failed to look up Slack channel")
	}
	if ch.IsArchived {
		return goerr.Wrap(model.ErrInvalidTarget, "Slack channel is archived")
	}
	return nil
}

// Name returns "slack"
func (c *Client) Name() string {
	return "slack"
}

func wrapError(err error, msg string) error {
	if slices.Contains(invalidChannelErrors, err.Error()) {
		return goerr.Wrap(model.ErrInvalidTarget, msg, goerr.V("slack_error", err.Error()))
	}
	return goerr.Wrap(err, msg)
}

func buildAttachment(msg *model.PushMessage) slack.Attachment {
	keys := make([]string, 0, len(msg.Data))
	for k := range msg.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]slack.AttachmentField, 0, len(keys))
	for _, k := range keys {
		if k == "repositoryUrl" {
			continue
		}
		fields = append(fields, slack.AttachmentField{
			Title: k,
			Value: msg.Data[k],
			Short: true,
		})
	}

	return slack.Attachment{
		Title:     msg.Title,
		TitleLink: msg.Data["repositoryUrl"],
		Text:      msg.Body,
		Color:     "#fc6d26",
		Fields:    fields,
	}
}
