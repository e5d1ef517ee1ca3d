// Package slack implements the notify Adapter for Slack via the Web API.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/henrietta/dispatch/internal/notify"
)

// client abstracts the Slack API methods we use, enabling test mocks.
type client interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Adapter posts notify events to a Slack channel.
type Adapter struct {
	client    client
	channelID string
}

// Opts holds parameters for creating a Slack Adapter.
type Opts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client client
}

// New creates a Slack Adapter.
func New(opts Opts) (*Adapter, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel id is required")
	}

	a := &Adapter{channelID: opts.ChannelID, client: opts.Client}
	if a.client == nil {
		a.client = slackapi.New(opts.BotToken)
	}
	return a, nil
}

// Send posts the event as an attachment-formatted message.
func (a *Adapter) Send(ctx context.Context, ev notify.Event) error {
	attachment := slackapi.Attachment{
		Title: ev.Title,
		Text:  ev.Body,
		Color: ev.Color,
	}
	for _, f := range ev.Fields {
		attachment.Fields = append(attachment.Fields, slackapi.AttachmentField{
			Title: f.Key,
			Value: f.Value,
			Short: true,
		})
	}

	_, _, err := a.client.PostMessageContext(ctx, a.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post to %s: %w", a.channelID, err)
	}
	return nil
}

// Close is a no-op; the Web API client holds no connection.
func (a *Adapter) Close() error { return nil }
