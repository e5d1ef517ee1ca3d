// Package enrich joins the primary job rows against the secondary snapshot
// sources, producing one canonical record per job.
//
// The join is total: every primary job survives enrichment whether or not it
// has matching labor, backlog, inventory, or material rows. Join keys are
// trimmed and case-folded because export tooling is not consistent about
// either.
package enrich

import (
	"sort"
	"strings"
	"time"

	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/source"
)

// Inputs carries the raw row sets for one load cycle. Secondary slices may
// be nil when their source was unavailable; dependent fields then stay
// Absent/false on every record.
type Inputs struct {
	Jobs      []source.JobRow
	Labor     []source.LaborRow
	Backlog   []source.BacklogRow
	Inventory []source.InventoryRow
	Materials []source.MaterialRow
}

// key normalizes a join key: trim plus case-fold.
func key(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// laborAgg accumulates labor rows for one job.
type laborAgg struct {
	lastDate *time.Time
	hours    float64
}

// Join produces the canonical record set, sorted by job id. Records carry
// no derived status yet; that is the status engine's job.
func Join(in Inputs) []models.JobRecord {
	// Duplicate primary rows for the same job collapse into one record:
	// last-seen wins for scalar fields.
	byJob := make(map[string]*models.JobRecord)
	var order []string
	for _, row := range in.Jobs {
		k := key(row.JobID)
		rec, ok := byJob[k]
		if !ok {
			rec = &models.JobRecord{}
			byJob[k] = rec
			order = append(order, k)
		}
		rec.JobID = row.JobID
		rec.OrderID = row.OrderID
		rec.Part = row.Part
		rec.Description = row.Description
		rec.Customer = row.Customer
		rec.Engineered = row.Engineered
		rec.OrderQty = row.OrderQty
		rec.QtyCompleted = row.QtyCompleted
		rec.DueDate = row.DueDate
		rec.NeedBy = row.NeedBy
	}

	// Labor history: sum hours, keep the most recent date per job.
	labor := make(map[string]*laborAgg)
	for _, lr := range in.Labor {
		k := key(lr.JobID)
		agg, ok := labor[k]
		if !ok {
			agg = &laborAgg{}
			labor[k] = agg
		}
		agg.hours += lr.Hours
		if lr.Date != nil && (agg.lastDate == nil || lr.Date.After(*agg.lastDate)) {
			agg.lastDate = lr.Date
		}
	}

	// Backlog membership: any matching order row marks the job ESI.
	backlog := make(map[string]bool)
	for _, br := range in.Backlog {
		backlog[key(br.OrderID)] = true
	}

	// Inventory: max on-hand per part (some parts export multiple rows).
	inventory := make(map[string]float64)
	hasInventory := in.Inventory != nil
	for _, ir := range in.Inventory {
		k := key(ir.Part)
		if cur, ok := inventory[k]; !ok || ir.QtyOnHand > cur {
			inventory[k] = ir.QtyOnHand
		}
	}

	// Material shortage: any line with required > issued flags the job.
	short := make(map[string]bool)
	for _, mr := range in.Materials {
		if mr.Short() {
			short[key(mr.JobID)] = true
		}
	}

	records := make([]models.JobRecord, 0, len(byJob))
	for _, k := range order {
		rec := byJob[k]

		if agg, ok := labor[k]; ok {
			rec.LastLaborDate = agg.lastDate
			rec.TotalLaborHours = agg.hours
		}

		// ESI membership by order, or by the job-number prefix convention.
		rec.ESI = backlog[key(rec.OrderID)] || strings.HasPrefix(key(rec.JobID), "ESI")

		if hasInventory {
			if qty, ok := inventory[key(rec.Part)]; ok {
				q := qty
				rec.QtyOnHand = &q
			}
		}

		rec.MaterialShort = short[k]
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].JobID < records[j].JobID
	})
	return records
}
