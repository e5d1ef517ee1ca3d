// Package models holds the domain types shared across the pipeline
// plus the GORM models persisted in the notes store.
package models

import "time"

// Status is the derived production state of a job. Every record carries
// exactly one status; derivation order is defined in the status package.
type Status string

const (
	StatusUnengineered     Status = "unengineered"
	StatusInWork           Status = "in_work"
	StatusCanShip          Status = "can_ship"
	StatusPartialInventory Status = "partial"
	StatusNotStarted       Status = "not_started"
)

// DisplayName returns the human-readable label for a status.
func (s Status) DisplayName() string {
	switch s {
	case StatusUnengineered:
		return "Unengineered"
	case StatusInWork:
		return "In-Work"
	case StatusCanShip:
		return "Can Ship"
	case StatusPartialInventory:
		return "Partial"
	case StatusNotStarted:
		return "Not Started"
	}
	return string(s)
}

// JobRecord is the unit of truth after normalization and join: one row per
// job, rebuilt wholesale on every load cycle. Optional fields are pointers;
// nil means the source value was blank, unparseable, or the source itself
// was unavailable.
type JobRecord struct {
	JobID       string
	OrderID     string
	Part        string
	Description string
	Customer    string

	Engineered   bool
	OrderQty     float64
	QtyCompleted float64
	DueDate      *time.Time
	NeedBy       *time.Time

	// Populated by enrichment joins.
	LastLaborDate   *time.Time
	TotalLaborHours float64
	ESI             bool
	QtyOnHand       *float64
	MaterialShort   bool

	// Derived by the status engine; recomputed whenever inputs change.
	Status       Status
	RemainingQty float64
	PastDue      bool
	CanShip      bool
}
