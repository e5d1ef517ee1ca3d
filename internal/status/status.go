// Package status derives each job's production status and overlay flags.
//
// Status is a strict waterfall, not a set of independent flags: rules are
// evaluated top to bottom and the first match wins. The engineering gate
// dominates everything downstream: a job that is unengineered stays
// Unengineered no matter how much quantity has completed.
package status

import (
	"time"

	"github.com/henrietta/dispatch/internal/models"
)

// rule is one step of the waterfall. match is evaluated against the
// enriched record; the first matching rule's status is assigned.
type rule struct {
	status models.Status
	match  func(r *models.JobRecord) bool
}

// waterfall is the ordered status-determination rule list. Order is
// load-bearing; do not reorder without revisiting every downstream rule.
var waterfall = []rule{
	{models.StatusUnengineered, func(r *models.JobRecord) bool {
		return !r.Engineered
	}},
	{models.StatusInWork, func(r *models.JobRecord) bool {
		return r.QtyCompleted > 0
	}},
	{models.StatusCanShip, func(r *models.JobRecord) bool {
		return r.QtyOnHand != nil && *r.QtyOnHand >= r.OrderQty
	}},
	{models.StatusPartialInventory, func(r *models.JobRecord) bool {
		return r.QtyOnHand != nil && *r.QtyOnHand > 0
	}},
	{models.StatusNotStarted, func(r *models.JobRecord) bool {
		return true
	}},
}

// Derive returns the waterfall status for a record.
func Derive(r *models.JobRecord) models.Status {
	for _, rl := range waterfall {
		if rl.match(r) {
			return rl.status
		}
	}
	// Unreachable: the final rule always matches.
	return models.StatusNotStarted
}

// Tag computes status and all derived fields for every record, in place.
// Overlay flags (past due, can ship) are independent of the waterfall and
// may co-occur with any status. today anchors the past-due comparison.
func Tag(records []models.JobRecord, today time.Time) {
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	for i := range records {
		r := &records[i]
		r.Status = Derive(r)

		r.RemainingQty = r.OrderQty - r.QtyCompleted
		if r.RemainingQty < 0 {
			r.RemainingQty = 0
		}

		r.PastDue = r.DueDate != nil && r.DueDate.Before(midnight)
		r.CanShip = r.QtyOnHand != nil && *r.QtyOnHand >= r.OrderQty
	}
}
