// Package pipeline runs the full load cycle (read sources, normalize,
// join, derive) as one synchronous unit producing an immutable Snapshot.
//
// Consumers never observe a half-built record set: the snapshot is built in
// full and then swapped in atomically. A failed load leaves the previous
// snapshot displayed with a stale indicator.
package pipeline

import (
	"time"

	"github.com/henrietta/dispatch/internal/enrich"
	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/normalize"
	"github.com/henrietta/dispatch/internal/purchasing"
	"github.com/henrietta/dispatch/internal/source"
	"github.com/henrietta/dispatch/internal/status"
)

// Paths names the snapshot files for one deployment. ShopOrders is
// required; the rest are optional and may be empty to skip the source
// entirely.
type Paths struct {
	ShopOrders        string
	LaborHistory      string
	OrderBacklog      string
	PartInventory     string
	MaterialNotIssued string
	OpenPO            string
}

// Diagnostics is everything the load surfaced besides the records:
// per-source reports, degraded sources, and row-level coercion warnings.
type Diagnostics struct {
	Sources  []source.Report     `json:"sources"`
	Degraded []source.ID         `json:"degraded_sources,omitempty"`
	Warnings []normalize.Warning `json:"warnings,omitempty"`
}

// Snapshot is one complete, immutable load result. All fields are
// populated before the snapshot becomes visible to consumers.
type Snapshot struct {
	Records   []models.JobRecord
	POLines   []purchasing.Line
	Suppliers []purchasing.SupplierMetrics
	Diag      Diagnostics
	BuiltAt   time.Time
}

// Run executes one full load cycle. today anchors every date-derived flag.
// A missing required source returns *source.FatalLoadError and no
// snapshot; everything else degrades into Diagnostics.
func Run(paths Paths, today time.Time) (*Snapshot, error) {
	ld := &source.Loader{}

	jobs, err := ld.ShopOrders(paths.ShopOrders)
	if err != nil {
		return nil, err
	}

	in := enrich.Inputs{Jobs: jobs}
	if paths.LaborHistory != "" {
		in.Labor = ld.Labor(paths.LaborHistory)
	}
	if paths.OrderBacklog != "" {
		in.Backlog = ld.Backlog(paths.OrderBacklog)
	}
	if paths.PartInventory != "" {
		in.Inventory = ld.Inventory(paths.PartInventory)
	}
	if paths.MaterialNotIssued != "" {
		in.Materials = ld.Materials(paths.MaterialNotIssued)
	}

	records := enrich.Join(in)
	status.Tag(records, today)

	var poLines []purchasing.Line
	var suppliers []purchasing.SupplierMetrics
	if paths.OpenPO != "" {
		poLines = purchasing.Derive(ld.OpenPOs(paths.OpenPO), today)
		suppliers = purchasing.Metrics(poLines)
	}

	diag := Diagnostics{
		Sources:  ld.Reports,
		Warnings: ld.Warnings,
	}
	for _, rep := range ld.Reports {
		if !rep.Available {
			diag.Degraded = append(diag.Degraded, rep.Source)
		}
	}

	return &Snapshot{
		Records:   records,
		POLines:   poLines,
		Suppliers: suppliers,
		Diag:      diag,
		BuiltAt:   time.Now(),
	}, nil
}
