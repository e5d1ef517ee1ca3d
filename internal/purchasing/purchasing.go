// Package purchasing derives overdue flags and supplier metrics from the
// open purchase-order snapshot.
package purchasing

import (
	"sort"
	"time"

	"github.com/henrietta/dispatch/internal/source"
)

// dueSoonWindow is how far ahead a PO line counts as "due soon".
const dueSoonWindow = 7 * 24 * time.Hour

// Line is one open PO line with derived schedule flags.
type Line struct {
	PO           string     `json:"po"`
	Line         string     `json:"line"`
	Part         string     `json:"part"`
	Supplier     string     `json:"supplier"`
	Qty          float64    `json:"qty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	JobID        string     `json:"job_id,omitempty"`
	Overdue      bool       `json:"overdue"`
	DueSoon      bool       `json:"due_soon"`
	DaysUntilDue int        `json:"days_until_due"`
}

// Derive computes schedule flags for each PO row. today anchors the
// overdue comparison.
func Derive(rows []source.PORow, today time.Time) []Line {
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		ln := Line{
			PO:       r.PO,
			Line:     r.Line,
			Part:     r.Part,
			Supplier: r.Supplier,
			Qty:      r.Qty,
			DueDate:  r.DueDate,
			JobID:    r.JobID,
		}
		if r.DueDate != nil {
			days := int(r.DueDate.Sub(midnight) / (24 * time.Hour))
			ln.DaysUntilDue = days
			ln.Overdue = r.DueDate.Before(midnight)
			ln.DueSoon = !ln.Overdue && r.DueDate.Sub(midnight) <= dueSoonWindow
		}
		lines = append(lines, ln)
	}
	return lines
}

// SupplierMetrics summarizes open-PO performance for one supplier.
type SupplierMetrics struct {
	Supplier     string  `json:"supplier"`
	TotalPOs     int     `json:"total_pos"`
	TotalLines   int     `json:"total_lines"`
	TotalQty     float64 `json:"total_qty"`
	OverdueLines int     `json:"overdue_lines"`
	LinkedJobs   int     `json:"linked_jobs"`
	OnTimeRate   float64 `json:"on_time_rate"` // percentage, one decimal
}

// Metrics aggregates lines per supplier, sorted by overdue lines
// descending so the worst offenders surface first.
func Metrics(lines []Line) []SupplierMetrics {
	type agg struct {
		pos     map[string]bool
		metrics SupplierMetrics
	}
	bySupplier := make(map[string]*agg)
	for _, ln := range lines {
		a, ok := bySupplier[ln.Supplier]
		if !ok {
			a = &agg{pos: make(map[string]bool)}
			a.metrics.Supplier = ln.Supplier
			bySupplier[ln.Supplier] = a
		}
		a.pos[ln.PO] = true
		a.metrics.TotalLines++
		a.metrics.TotalQty += ln.Qty
		if ln.Overdue {
			a.metrics.OverdueLines++
		}
		if ln.JobID != "" {
			a.metrics.LinkedJobs++
		}
	}

	result := make([]SupplierMetrics, 0, len(bySupplier))
	for _, a := range bySupplier {
		m := a.metrics
		m.TotalPOs = len(a.pos)
		if m.TotalLines > 0 {
			rate := float64(m.TotalLines-m.OverdueLines) / float64(m.TotalLines) * 100
			m.OnTimeRate = float64(int(rate*10+0.5)) / 10
		}
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OverdueLines != result[j].OverdueLines {
			return result[i].OverdueLines > result[j].OverdueLines
		}
		return result[i].Supplier < result[j].Supplier
	})
	return result
}
