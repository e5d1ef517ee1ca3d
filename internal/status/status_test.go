package status

import (
	"testing"
	"time"

	"github.com/henrietta/dispatch/internal/models"
)

func qty(v float64) *float64 { return &v }

func TestDeriveWaterfall(t *testing.T) {
	tests := []struct {
		name string
		rec  models.JobRecord
		want models.Status
	}{
		{
			"unengineered",
			models.JobRecord{Engineered: false},
			models.StatusUnengineered,
		},
		{
			// The engineering gate dominates: completed quantity does not
			// promote an unengineered job.
			"unengineered despite completions",
			models.JobRecord{Engineered: false, QtyCompleted: 5, OrderQty: 10},
			models.StatusUnengineered,
		},
		{
			"unengineered despite full inventory",
			models.JobRecord{Engineered: false, OrderQty: 10, QtyOnHand: qty(10)},
			models.StatusUnengineered,
		},
		{
			"in work",
			models.JobRecord{Engineered: true, QtyCompleted: 1, OrderQty: 10},
			models.StatusInWork,
		},
		{
			// In-work wins over can-ship when both match.
			"in work beats can ship",
			models.JobRecord{Engineered: true, QtyCompleted: 1, OrderQty: 10, QtyOnHand: qty(10)},
			models.StatusInWork,
		},
		{
			"can ship",
			models.JobRecord{Engineered: true, OrderQty: 10, QtyOnHand: qty(10)},
			models.StatusCanShip,
		},
		{
			"can ship with surplus",
			models.JobRecord{Engineered: true, OrderQty: 10, QtyOnHand: qty(25)},
			models.StatusCanShip,
		},
		{
			"partial inventory",
			models.JobRecord{Engineered: true, OrderQty: 10, QtyOnHand: qty(3)},
			models.StatusPartialInventory,
		},
		{
			"not started with zero inventory",
			models.JobRecord{Engineered: true, OrderQty: 10, QtyOnHand: qty(0)},
			models.StatusNotStarted,
		},
		{
			"not started with unknown inventory",
			models.JobRecord{Engineered: true, OrderQty: 10},
			models.StatusNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(&tt.rec); got != tt.want {
				t.Errorf("Derive() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTagRemainingQty(t *testing.T) {
	records := []models.JobRecord{
		{Engineered: true, OrderQty: 10, QtyCompleted: 4},
		{Engineered: true, OrderQty: 10, QtyCompleted: 14}, // over-completion clamps
		{Engineered: true, OrderQty: 0, QtyCompleted: 0},
	}
	Tag(records, time.Now())

	wants := []float64{6, 0, 0}
	for i, want := range wants {
		if records[i].RemainingQty != want {
			t.Errorf("record %d remaining = %v, want %v", i, records[i].RemainingQty, want)
		}
	}
}

func TestTagPastDue(t *testing.T) {
	today := time.Date(2026, 6, 15, 9, 30, 0, 0, time.Local)
	yesterday := time.Date(2026, 6, 14, 0, 0, 0, 0, time.Local)
	todayMidnight := time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	tomorrow := time.Date(2026, 6, 16, 0, 0, 0, 0, time.Local)

	records := []models.JobRecord{
		{Engineered: true, DueDate: &yesterday},
		{Engineered: true, DueDate: &todayMidnight}, // due today is not past due
		{Engineered: true, DueDate: &tomorrow},
		{Engineered: true}, // no due date
	}
	Tag(records, today)

	wants := []bool{true, false, false, false}
	for i, want := range wants {
		if records[i].PastDue != want {
			t.Errorf("record %d past due = %v, want %v", i, records[i].PastDue, want)
		}
	}
}

func TestTagOverlaysIndependentOfStatus(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	records := []models.JobRecord{
		{Engineered: false, OrderQty: 5, QtyOnHand: qty(5), DueDate: &yesterday},
	}
	Tag(records, time.Now())

	r := records[0]
	if r.Status != models.StatusUnengineered {
		t.Errorf("status = %s, want unengineered", r.Status)
	}
	// Overlays still fire even though the waterfall stopped at the gate.
	if !r.PastDue {
		t.Error("past due overlay should be set")
	}
	if !r.CanShip {
		t.Error("can ship overlay should be set")
	}
}
