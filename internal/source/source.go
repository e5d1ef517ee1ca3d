// Package source reads the periodic ERP snapshot files into typed raw rows.
//
// Each source is a point-in-time export refreshed out-of-band; the loader
// re-reads current file contents on every load cycle and holds no cache.
// The primary job table is required; its absence is a fatal load error.
// Every other source is optional and degrades to an empty row set plus a
// diagnostic.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ID identifies a snapshot source.
type ID string

const (
	ShopOrders        ID = "shop_orders"
	LaborHistory      ID = "labor_history"
	OrderBacklog      ID = "order_backlog"
	PartInventory     ID = "part_inventory"
	MaterialNotIssued ID = "material_not_issued"
	OpenPO            ID = "open_po"
)

// ErrUnavailable reports that an optional source file is missing or
// unreadable. Callers treat it as a degraded-source diagnostic, not a
// failure.
var ErrUnavailable = errors.New("source unavailable")

// FatalLoadError reports that the required primary source is missing or
// unreadable. No record set is produced; the caller retains the previously
// displayed set.
type FatalLoadError struct {
	Source ID
	Path   string
	Err    error
}

func (e *FatalLoadError) Error() string {
	return fmt.Sprintf("source: required source %s unavailable at %s: %v", e.Source, e.Path, e.Err)
}

func (e *FatalLoadError) Unwrap() error { return e.Err }

// Report is the per-source load diagnostic surfaced to the caller.
type Report struct {
	Source    ID        `json:"source"`
	Path      string    `json:"path"`
	Available bool      `json:"available"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped_rows"`
	ModTime   time.Time `json:"mod_time,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// table is a parsed CSV snapshot: a header index plus data rows.
// Rows with a mismatched field count are dropped and counted.
type table struct {
	cols    map[string]int
	rows    [][]string
	skipped int
	modTime time.Time
}

// get returns the named column of a row, or "" when the column is absent.
func (t *table) get(row []string, name string) string {
	i, ok := t.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// readTable parses a headered CSV file. Export tooling occasionally emits
// ragged or unterminated rows; those are skipped, never fatal.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &table{cols: make(map[string]int)}
	if fi, err := f.Stat(); err == nil {
		t.modTime = fi.ModTime()
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		t.cols[strings.TrimSpace(name)] = i
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.skipped++
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// readHeaderless parses a CSV file with no header row (the labor history
// export), returning raw rows of at least minFields columns.
func readHeaderless(path string, minFields int) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &table{}
	if fi, err := f.Stat(); err == nil {
		t.modTime = fi.ModTime()
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(row) < minFields {
			t.skipped++
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func modTimeOf(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
