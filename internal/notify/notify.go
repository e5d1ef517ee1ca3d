// Package notify posts load alerts and past-due digests to chat platforms.
// Adapters are send-only; the dashboard never ingests chat input.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/henrietta/dispatch/internal/pipeline"
)

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Key   string
	Value string
}

// Event is a platform-neutral notification.
type Event struct {
	Title    string
	Body     string
	Severity string // "info", "warning", "error"
	Color    string // sidebar color hint
	Fields   []Field
}

// Adapter is a single chat platform destination.
type Adapter interface {
	// Send delivers an event to the platform's configured channel.
	Send(ctx context.Context, ev Event) error

	// Close shuts down the adapter.
	Close() error
}

// Notifier fans events out to every configured adapter. Send failures are
// logged, never propagated; chat is best-effort.
type Notifier struct {
	adapters []Adapter
}

// New returns a Notifier over the given adapters. nil adapters are skipped.
func New(adapters ...Adapter) *Notifier {
	n := &Notifier{}
	for _, a := range adapters {
		if a != nil {
			n.adapters = append(n.adapters, a)
		}
	}
	return n
}

// Enabled reports whether any adapter is configured.
func (n *Notifier) Enabled() bool { return len(n.adapters) > 0 }

// Publish sends the event to all adapters.
func (n *Notifier) Publish(ctx context.Context, ev Event) {
	for _, a := range n.adapters {
		if err := a.Send(ctx, ev); err != nil {
			log.Printf("notify: send %q: %v", ev.Title, err)
		}
	}
}

// Close shuts down all adapters.
func (n *Notifier) Close() {
	for _, a := range n.adapters {
		if err := a.Close(); err != nil {
			log.Printf("notify: close: %v", err)
		}
	}
}

// LoadFailure builds the event for a failed refresh. The previous record
// set stays displayed; the alert names the missing source so someone can
// fix the export.
func LoadFailure(err error) Event {
	return Event{
		Title:    "Dispatch load failed",
		Body:     err.Error(),
		Severity: "error",
		Color:    "#FF6B6B",
	}
}

// Digest summarizes a fresh snapshot: past-due and material-short counts
// plus degraded sources. Returns ok=false when there is nothing worth
// posting.
func Digest(sn *pipeline.Snapshot) (Event, bool) {
	pastDue := 0
	materialShort := 0
	for i := range sn.Records {
		if sn.Records[i].PastDue {
			pastDue++
		}
		if sn.Records[i].MaterialShort {
			materialShort++
		}
	}

	if pastDue == 0 && materialShort == 0 && len(sn.Diag.Degraded) == 0 {
		return Event{}, false
	}

	ev := Event{
		Title:    "Dispatch refresh digest",
		Severity: "warning",
		Color:    "#FFD93D",
		Fields: []Field{
			{Key: "Jobs", Value: fmt.Sprintf("%d", len(sn.Records))},
			{Key: "Past due", Value: fmt.Sprintf("%d", pastDue)},
			{Key: "Material short", Value: fmt.Sprintf("%d", materialShort)},
		},
	}
	for _, src := range sn.Diag.Degraded {
		ev.Fields = append(ev.Fields, Field{Key: "Degraded source", Value: string(src)})
	}
	return ev, true
}
