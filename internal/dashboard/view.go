package dashboard

import (
	"time"

	"github.com/henrietta/dispatch/internal/filter"
	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/pipeline"
	"github.com/henrietta/dispatch/internal/present"
	"github.com/henrietta/dispatch/internal/purchasing"
)

// dateDisplay is the date format the dispatch board has always used.
const dateDisplay = "01/02/2006"

// JobView is one record shaped for display: derived fields resolved to
// tokens, optional dates formatted ("" when absent), note count merged in.
type JobView struct {
	JobID       string `json:"job_id"`
	OrderID     string `json:"order_id,omitempty"`
	Part        string `json:"part"`
	Description string `json:"description"`
	Customer    string `json:"customer"`

	Status     string `json:"status"`
	StatusName string `json:"status_name"`

	OrderQty        float64  `json:"order_qty"`
	QtyCompleted    float64  `json:"qty_completed"`
	RemainingQty    float64  `json:"remaining_qty"`
	TotalLaborHours float64  `json:"total_labor_hours"`
	QtyOnHand       *float64 `json:"qty_on_hand,omitempty"`

	DueDate       string `json:"due_date"`
	NeedBy        string `json:"need_by"`
	LastLaborDate string `json:"last_labor_date"`

	ESI           bool `json:"esi"`
	PastDue       bool `json:"past_due"`
	CanShip       bool `json:"can_ship"`
	MaterialShort bool `json:"material_short"`

	Color     string   `json:"color"`
	Badges    []string `json:"badges,omitempty"`
	NoteCount int64    `json:"note_count"`
}

// JobsResponse is the full dashboard payload: the filtered view, the
// independent per-filter counts, and the load diagnostics.
type JobsResponse struct {
	BuiltAt         time.Time            `json:"built_at,omitzero"`
	Stale           bool                 `json:"stale"`
	LoadError       string               `json:"load_error,omitempty"`
	Total           int                  `json:"total"`
	Jobs            []JobView            `json:"jobs"`
	Counts          map[string]int       `json:"counts"`
	RejectedFilters []string             `json:"rejected_filters,omitempty"`
	Diagnostics     pipeline.Diagnostics `json:"diagnostics"`
}

// BuildJobsView applies filters to the current snapshot and shapes the
// result for display. noteCounts may be nil when the notes store is
// unavailable.
func BuildJobsView(state pipeline.State, f filter.Filters, rejected []string, noteCounts map[string]int64) JobsResponse {
	resp := JobsResponse{
		Stale:           state.Stale,
		LoadError:       state.LastError,
		Jobs:            []JobView{},
		Counts:          map[string]int{},
		RejectedFilters: rejected,
	}
	if state.Snapshot == nil {
		return resp
	}

	sn := state.Snapshot
	resp.BuiltAt = sn.BuiltAt
	resp.Total = len(sn.Records)
	resp.Diagnostics = sn.Diag

	res := filter.Apply(sn.Records, f)
	resp.Counts = res.Counts
	for i := range res.Matched {
		resp.Jobs = append(resp.Jobs, buildJobView(&res.Matched[i], noteCounts))
	}
	return resp
}

func buildJobView(r *models.JobRecord, noteCounts map[string]int64) JobView {
	v := JobView{
		JobID:       r.JobID,
		OrderID:     r.OrderID,
		Part:        r.Part,
		Description: r.Description,
		Customer:    r.Customer,

		Status:     string(r.Status),
		StatusName: r.Status.DisplayName(),

		OrderQty:        r.OrderQty,
		QtyCompleted:    r.QtyCompleted,
		RemainingQty:    r.RemainingQty,
		TotalLaborHours: r.TotalLaborHours,
		QtyOnHand:       r.QtyOnHand,

		DueDate:       formatDate(r.DueDate),
		NeedBy:        formatDate(r.NeedBy),
		LastLaborDate: formatDate(r.LastLaborDate),

		ESI:           r.ESI,
		PastDue:       r.PastDue,
		CanShip:       r.CanShip,
		MaterialShort: r.MaterialShort,

		Color:  string(present.ColorFor(r)),
		Badges: present.Badges(r),
	}
	if noteCounts != nil {
		v.NoteCount = noteCounts[r.JobID]
	}
	return v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateDisplay)
}

// PurchasingResponse is the open-PO payload: lines with schedule flags
// plus per-supplier metrics. Empty when the open-PO source is absent.
type PurchasingResponse struct {
	BuiltAt   time.Time                    `json:"built_at,omitzero"`
	Stale     bool                         `json:"stale"`
	Lines     []purchasing.Line            `json:"lines"`
	Suppliers []purchasing.SupplierMetrics `json:"suppliers"`
}

// BuildPurchasingView shapes the purchasing payload from the current state.
func BuildPurchasingView(state pipeline.State) PurchasingResponse {
	resp := PurchasingResponse{
		Stale:     state.Stale,
		Lines:     []purchasing.Line{},
		Suppliers: []purchasing.SupplierMetrics{},
	}
	if state.Snapshot == nil {
		return resp
	}
	resp.BuiltAt = state.Snapshot.BuiltAt
	if state.Snapshot.POLines != nil {
		resp.Lines = state.Snapshot.POLines
	}
	if state.Snapshot.Suppliers != nil {
		resp.Suppliers = state.Snapshot.Suppliers
	}
	return resp
}
