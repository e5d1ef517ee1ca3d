// Package discord implements the notify Adapter for Discord.
package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/henrietta/dispatch/internal/notify"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	Open() error
	Close() error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter posts notify events to a Discord channel as embeds.
type Adapter struct {
	sess      session
	channelID string
	opened    bool
}

// Opts holds parameters for creating a Discord Adapter.
type Opts struct {
	BotToken  string // Discord bot token
	ChannelID string // channel to post to
	// For testing: inject a mock session instead of the real Discord API.
	Session session
}

// New creates a Discord Adapter.
func New(opts Opts) (*Adapter, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel id is required")
	}

	a := &Adapter{channelID: opts.ChannelID, sess: opts.Session}
	if a.sess == nil {
		s, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		a.sess = s
	}
	return a, nil
}

// Send posts the event as an embed. The session is opened lazily on first
// send so a configured-but-unreachable Discord never blocks startup.
func (a *Adapter) Send(ctx context.Context, ev notify.Event) error {
	if !a.opened {
		if err := a.sess.Open(); err != nil {
			return fmt.Errorf("discord: open session: %w", err)
		}
		a.opened = true
	}

	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       parseColor(ev.Color),
	}
	for _, f := range ev.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Key,
			Value:  f.Value,
			Inline: true,
		})
	}

	if _, err := a.sess.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		return fmt.Errorf("discord: post to %s: %w", a.channelID, err)
	}
	return nil
}

// Close shuts down the gateway session if it was opened.
func (a *Adapter) Close() error {
	if !a.opened {
		return nil
	}
	a.opened = false
	return a.sess.Close()
}

// parseColor converts a "#RRGGBB" hint to Discord's integer color.
func parseColor(hex string) int {
	s := strings.TrimPrefix(hex, "#")
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
