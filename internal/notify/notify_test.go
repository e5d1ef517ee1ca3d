package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/pipeline"
	"github.com/henrietta/dispatch/internal/source"
)

type mockAdapter struct {
	sent    []Event
	sendErr error
	closed  bool
}

func (m *mockAdapter) Send(ctx context.Context, ev Event) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, ev)
	return nil
}

func (m *mockAdapter) Close() error {
	m.closed = true
	return nil
}

func TestNotifierSkipsNilAdapters(t *testing.T) {
	a := &mockAdapter{}
	n := New(nil, a, nil)
	if !n.Enabled() {
		t.Fatal("notifier with one adapter should be enabled")
	}

	n.Publish(context.Background(), Event{Title: "test"})
	if len(a.sent) != 1 {
		t.Errorf("sent %d events, want 1", len(a.sent))
	}
}

func TestNotifierDisabledWithNoAdapters(t *testing.T) {
	if New().Enabled() {
		t.Error("empty notifier should be disabled")
	}
	if New(nil, nil).Enabled() {
		t.Error("all-nil notifier should be disabled")
	}
}

func TestPublishContinuesPastFailures(t *testing.T) {
	// Chat is best-effort: one failing adapter must not stop the others.
	bad := &mockAdapter{sendErr: errors.New("rate limited")}
	good := &mockAdapter{}
	n := New(bad, good)

	n.Publish(context.Background(), Event{Title: "test"})
	if len(good.sent) != 1 {
		t.Errorf("good adapter got %d events, want 1", len(good.sent))
	}
}

func TestNotifierClose(t *testing.T) {
	a, b := &mockAdapter{}, &mockAdapter{}
	New(a, b).Close()
	if !a.closed || !b.closed {
		t.Error("Close should reach every adapter")
	}
}

func TestLoadFailure(t *testing.T) {
	ev := LoadFailure(errors.New("shop orders missing"))
	if ev.Severity != "error" || ev.Body != "shop orders missing" {
		t.Errorf("event = %+v", ev)
	}
}

func TestDigest(t *testing.T) {
	sn := &pipeline.Snapshot{
		Records: []models.JobRecord{
			{JobID: "JOB-1", PastDue: true},
			{JobID: "JOB-2", MaterialShort: true},
			{JobID: "JOB-3"},
		},
		Diag: pipeline.Diagnostics{Degraded: []source.ID{source.LaborHistory}},
	}

	ev, ok := Digest(sn)
	if !ok {
		t.Fatal("digest with findings should post")
	}
	if ev.Severity != "warning" {
		t.Errorf("severity = %s", ev.Severity)
	}

	want := map[string]string{
		"Jobs":            "3",
		"Past due":        "1",
		"Material short":  "1",
		"Degraded source": "labor_history",
	}
	got := make(map[string]string)
	for _, f := range ev.Fields {
		got[f.Key] = f.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestDigestNothingToPost(t *testing.T) {
	sn := &pipeline.Snapshot{
		Records: []models.JobRecord{{JobID: "JOB-1"}, {JobID: "JOB-2"}},
	}
	if _, ok := Digest(sn); ok {
		t.Error("clean snapshot should produce no digest")
	}
}
