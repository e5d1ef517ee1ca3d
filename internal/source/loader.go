package source

import (
	"strings"
	"time"

	"github.com/henrietta/dispatch/internal/normalize"
)

// JobRow is one raw shop-order line after field coercion. Multiple rows may
// share a JobID (one per operation in the export); the enrichment joiner
// aggregates them.
type JobRow struct {
	Num          int
	JobID        string
	OrderID      string
	Part         string
	Description  string
	Customer     string
	Engineered   bool
	OrderQty     float64
	QtyCompleted float64
	DueDate      *time.Time
	NeedBy       *time.Time
}

// LaborRow is one labor-history entry for a job.
type LaborRow struct {
	JobID string
	Date  *time.Time
	Hours float64
}

// BacklogRow marks an order as present in the ESI backlog export.
type BacklogRow struct {
	OrderID string
}

// InventoryRow is one part's on-hand quantity from the part cost export.
type InventoryRow struct {
	Part      string
	QtyOnHand float64
}

// PORow is one open purchase-order line.
type PORow struct {
	PO       string
	Line     string
	Part     string
	Supplier string
	Qty      float64
	DueDate  *time.Time
	JobID    string
}

// Loader reads the configured snapshot files, accumulating per-source
// reports and row-level coercion warnings as it goes. A Loader is used for
// a single load cycle and then discarded.
type Loader struct {
	Reports  []Report
	Warnings []normalize.Warning
}

func (l *Loader) report(r Report) {
	l.Reports = append(l.Reports, r)
}

func (l *Loader) warn(src ID, row int, field string, kind normalize.Kind, raw string) {
	l.Warnings = append(l.Warnings, normalize.Warning{
		Source: string(src),
		Row:    row,
		Field:  field,
		Kind:   kind,
		Raw:    raw,
	})
}

// ShopOrders loads the required primary job table. A missing or unreadable
// file is a *FatalLoadError; malformed rows within the file are skipped and
// counted, never fatal.
func (l *Loader) ShopOrders(path string) ([]JobRow, error) {
	t, err := readTable(path)
	if err != nil {
		l.report(Report{Source: ShopOrders, Path: path, Error: err.Error()})
		return nil, &FatalLoadError{Source: ShopOrders, Path: path, Err: err}
	}

	rows := make([]JobRow, 0, len(t.rows))
	for i, raw := range t.rows {
		num := i + 1
		jobID, ok := normalize.String(t.get(raw, "Job"))
		if !ok {
			// A job line without a job number is unusable.
			t.skipped++
			continue
		}

		jr := JobRow{Num: num, JobID: jobID}
		jr.OrderID, _ = normalize.String(t.get(raw, "Order"))
		jr.Part, _ = normalize.String(t.get(raw, "Part"))
		jr.Description, _ = normalize.String(t.get(raw, "Description"))

		// Older exports label the customer column "Name".
		if cust, ok := normalize.String(t.get(raw, "Customer")); ok {
			jr.Customer = cust
		} else {
			jr.Customer, _ = normalize.String(t.get(raw, "Name"))
		}

		engRaw := t.get(raw, "Engineered")
		eng, ok := normalize.Bool(engRaw)
		if !ok {
			l.warn(ShopOrders, num, "Engineered", normalize.KindBool, engRaw)
		}
		jr.Engineered = eng

		jr.OrderQty = l.number(ShopOrders, num, "Order Qty", t.get(raw, "Order Qty"))
		jr.QtyCompleted = l.number(ShopOrders, num, "Qty Completed", t.get(raw, "Qty Completed"))
		jr.DueDate = l.date(ShopOrders, num, "Due Date", t.get(raw, "Due Date"))
		jr.NeedBy = l.date(ShopOrders, num, "Need By", t.get(raw, "Need By"))

		rows = append(rows, jr)
	}

	l.report(Report{
		Source: ShopOrders, Path: path, Available: true,
		Rows: len(rows), Skipped: t.skipped, ModTime: t.modTime,
	})
	return rows, nil
}

// Labor history export columns (no header row):
// Employee, Date, Type, Code, Hours, Job, Comment.
const (
	laborColDate  = 1
	laborColHours = 4
	laborColJob   = 5
)

// Labor loads the optional labor history. A missing file degrades to nil
// rows with an unavailable report.
func (l *Loader) Labor(path string) []LaborRow {
	t, err := readHeaderless(path, laborColJob+1)
	if err != nil {
		l.report(Report{Source: LaborHistory, Path: path, Error: err.Error()})
		return nil
	}

	rows := make([]LaborRow, 0, len(t.rows))
	for i, raw := range t.rows {
		num := i + 1
		jobID, ok := normalize.String(raw[laborColJob])
		if !ok {
			t.skipped++
			continue
		}
		lr := LaborRow{JobID: jobID}
		lr.Date = l.date(LaborHistory, num, "Date", raw[laborColDate])
		lr.Hours = l.number(LaborHistory, num, "Hours", raw[laborColHours])
		rows = append(rows, lr)
	}

	l.report(Report{
		Source: LaborHistory, Path: path, Available: true,
		Rows: len(rows), Skipped: t.skipped, ModTime: t.modTime,
	})
	return rows
}

// Backlog loads the optional ESI backlog membership export.
func (l *Loader) Backlog(path string) []BacklogRow {
	t, err := readTable(path)
	if err != nil {
		l.report(Report{Source: OrderBacklog, Path: path, Error: err.Error()})
		return nil
	}

	rows := make([]BacklogRow, 0, len(t.rows))
	for _, raw := range t.rows {
		orderID, ok := normalize.String(t.get(raw, "Order"))
		if !ok {
			t.skipped++
			continue
		}
		rows = append(rows, BacklogRow{OrderID: orderID})
	}

	l.report(Report{
		Source: OrderBacklog, Path: path, Available: true,
		Rows: len(rows), Skipped: t.skipped, ModTime: t.modTime,
	})
	return rows
}

// Inventory loads the optional part cost export for on-hand quantities.
func (l *Loader) Inventory(path string) []InventoryRow {
	t, err := readTable(path)
	if err != nil {
		l.report(Report{Source: PartInventory, Path: path, Error: err.Error()})
		return nil
	}

	rows := make([]InventoryRow, 0, len(t.rows))
	for i, raw := range t.rows {
		num := i + 1
		part, ok := normalize.String(t.get(raw, "Part"))
		if !ok {
			t.skipped++
			continue
		}
		qty := l.number(PartInventory, num, "Qty On Hand", t.get(raw, "Qty On Hand"))
		rows = append(rows, InventoryRow{Part: part, QtyOnHand: qty})
	}

	l.report(Report{
		Source: PartInventory, Path: path, Available: true,
		Rows: len(rows), Skipped: t.skipped, ModTime: t.modTime,
	})
	return rows
}

// OpenPOs loads the optional open purchase-order export.
func (l *Loader) OpenPOs(path string) []PORow {
	t, err := readTable(path)
	if err != nil {
		l.report(Report{Source: OpenPO, Path: path, Error: err.Error()})
		return nil
	}

	rows := make([]PORow, 0, len(t.rows))
	for i, raw := range t.rows {
		num := i + 1
		po, ok := normalize.String(t.get(raw, "PO"))
		if !ok {
			t.skipped++
			continue
		}
		pr := PORow{PO: po}
		pr.Line, _ = normalize.String(t.get(raw, "Line"))
		pr.Part, _ = normalize.String(t.get(raw, "Part Num"))
		if pr.Part == "" {
			pr.Part, _ = normalize.String(t.get(raw, "Part"))
		}
		pr.Supplier, _ = normalize.String(t.get(raw, "Name"))
		pr.Qty = l.number(OpenPO, num, "Supplier Qty", t.get(raw, "Supplier Qty"))
		pr.DueDate = l.date(OpenPO, num, "Due Date", t.get(raw, "Due Date"))
		pr.JobID, _ = normalize.String(t.get(raw, "Job"))
		rows = append(rows, pr)
	}

	l.report(Report{
		Source: OpenPO, Path: path, Available: true,
		Rows: len(rows), Skipped: t.skipped, ModTime: t.modTime,
	})
	return rows
}

// number coerces a numeric field, warning and defaulting to 0 on a
// non-blank parse failure.
func (l *Loader) number(src ID, row int, field, raw string) float64 {
	v, ok := normalize.Number(raw)
	if !ok && strings.TrimSpace(raw) != "" {
		l.warn(src, row, field, normalize.KindNumber, raw)
	}
	return v
}

// date coerces a date field, warning and returning nil (Absent) on a
// non-blank parse failure.
func (l *Loader) date(src ID, row int, field, raw string) *time.Time {
	v, ok := normalize.Date(raw)
	if !ok {
		if strings.TrimSpace(raw) != "" {
			l.warn(src, row, field, normalize.KindDate, raw)
		}
		return nil
	}
	return &v
}
