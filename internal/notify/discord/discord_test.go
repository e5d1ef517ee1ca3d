package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/henrietta/dispatch/internal/notify"
)

type mockSession struct {
	openErr   error
	opens     int
	closes    int
	sent      []*discordgo.MessageEmbed
	channelID string
	sendErr   error
}

func (m *mockSession) Open() error {
	m.opens++
	return m.openErr
}

func (m *mockSession) Close() error {
	m.closes++
	return nil
}

func (m *mockSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.channelID = channelID
	m.sent = append(m.sent, embed)
	return &discordgo.Message{}, nil
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Opts{ChannelID: "123"}); err == nil {
		t.Error("missing token should be rejected")
	}
	if _, err := New(Opts{BotToken: "token"}); err == nil {
		t.Error("missing channel should be rejected")
	}
}

func TestSendOpensLazily(t *testing.T) {
	mock := &mockSession{}
	a, err := New(Opts{Session: mock, ChannelID: "123"})
	if err != nil {
		t.Fatal(err)
	}
	if mock.opens != 0 {
		t.Fatal("session should not open before first send")
	}

	ev := notify.Event{Title: "Dispatch load failed", Body: "boom", Color: "#FF6B6B"}
	if err := a.Send(context.Background(), ev); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if err := a.Send(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	if mock.opens != 1 {
		t.Errorf("opens = %d, want 1 (open once, reuse)", mock.opens)
	}
	if len(mock.sent) != 2 || mock.channelID != "123" {
		t.Errorf("sent %d embeds to %q", len(mock.sent), mock.channelID)
	}
	if mock.sent[0].Title != "Dispatch load failed" || mock.sent[0].Color != 0xFF6B6B {
		t.Errorf("embed = %+v", mock.sent[0])
	}
}

func TestSendOpenFailure(t *testing.T) {
	mock := &mockSession{openErr: errors.New("bad token")}
	a, _ := New(Opts{Session: mock, ChannelID: "123"})

	if err := a.Send(context.Background(), notify.Event{}); err == nil {
		t.Fatal("open failure should propagate")
	}
}

func TestCloseOnlyWhenOpened(t *testing.T) {
	mock := &mockSession{}
	a, _ := New(Opts{Session: mock, ChannelID: "123"})

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if mock.closes != 0 {
		t.Error("never-opened session should not be closed")
	}

	a.Send(context.Background(), notify.Event{})
	a.Close()
	if mock.closes != 1 {
		t.Errorf("closes = %d, want 1", mock.closes)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#FF6B6B", 0xFF6B6B},
		{"FFD93D", 0xFFD93D},
		{"", 0},
		{"#nothex", 0},
	}
	for _, tt := range tests {
		if got := parseColor(tt.hex); got != tt.want {
			t.Errorf("parseColor(%q) = %#x, want %#x", tt.hex, got, tt.want)
		}
	}
}
