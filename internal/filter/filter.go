// Package filter evaluates composable predicates against the record set.
//
// Active filters compose with strict AND. Per-filter counts are always
// computed against the full record set, independent of which filters are
// active, so toggling one filter never changes the advertised count of
// another. Filtering is a pure function of (records, filters).
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/normalize"
)

// ESIMode is the tri-state ESI membership filter.
type ESIMode string

const (
	ESIAll     ESIMode = "all"
	ESIOnly    ESIMode = "only"
	ESIExclude ESIMode = "exclude"
)

// InputError reports an invalid filter value rejected at the filter
// boundary. The offending filter is treated as not applied; the pipeline
// never fails on bad filter input.
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("filter: invalid %s value %q", e.Field, e.Value)
}

// Filters is the set of active predicates. The zero value matches
// everything.
type Filters struct {
	Unengineered bool
	InWork       bool
	CanShip      bool
	ESI          ESIMode
	Customer     string // empty = inactive
	Substring    bool   // customer substring match instead of exact
	DueFrom      *time.Time
	DueTo        *time.Time
}

// Result is the filtered subset plus independent per-filter counts.
type Result struct {
	Matched []models.JobRecord
	Counts  map[string]int
}

// Count map keys, one per supported predicate.
const (
	CountUnengineered = "unengineered"
	CountInWork       = "in_work"
	CountCanShip      = "can_ship"
	CountESIOnly      = "esi_only"
	CountNonESI       = "non_esi"
	CountCustomer     = "customer"
	CountDueRange     = "due_range"
	CountPastDue      = "past_due"
)

// Apply returns the records satisfying every active filter, plus the
// count of records matching each individual predicate alone.
func Apply(records []models.JobRecord, f Filters) Result {
	res := Result{
		Matched: make([]models.JobRecord, 0, len(records)),
		Counts:  make(map[string]int),
	}

	for i := range records {
		r := &records[i]

		// Independent counts over the full set.
		if matchStatus(r, models.StatusUnengineered) {
			res.Counts[CountUnengineered]++
		}
		if matchStatus(r, models.StatusInWork) {
			res.Counts[CountInWork]++
		}
		if matchStatus(r, models.StatusCanShip) {
			res.Counts[CountCanShip]++
		}
		if r.ESI {
			res.Counts[CountESIOnly]++
		} else {
			res.Counts[CountNonESI]++
		}
		if r.PastDue {
			res.Counts[CountPastDue]++
		}
		if f.Customer != "" && matchCustomer(r, f) {
			res.Counts[CountCustomer]++
		}
		if (f.DueFrom != nil || f.DueTo != nil) && matchDueRange(r, f) {
			res.Counts[CountDueRange]++
		}

		if matches(r, f) {
			res.Matched = append(res.Matched, *r)
		}
	}
	return res
}

// matches evaluates the AND composition of every active filter.
func matches(r *models.JobRecord, f Filters) bool {
	if f.Unengineered && !matchStatus(r, models.StatusUnengineered) {
		return false
	}
	if f.InWork && !matchStatus(r, models.StatusInWork) {
		return false
	}
	if f.CanShip && !matchStatus(r, models.StatusCanShip) {
		return false
	}
	switch f.ESI {
	case ESIOnly:
		if !r.ESI {
			return false
		}
	case ESIExclude:
		if r.ESI {
			return false
		}
	}
	if f.Customer != "" && !matchCustomer(r, f) {
		return false
	}
	if (f.DueFrom != nil || f.DueTo != nil) && !matchDueRange(r, f) {
		return false
	}
	return true
}

func matchStatus(r *models.JobRecord, s models.Status) bool {
	return r.Status == s
}

// matchCustomer compares case-insensitively, exact or substring.
func matchCustomer(r *models.JobRecord, f Filters) bool {
	want := strings.ToLower(strings.TrimSpace(f.Customer))
	have := strings.ToLower(strings.TrimSpace(r.Customer))
	if f.Substring {
		return strings.Contains(have, want)
	}
	return have == want
}

// matchDueRange checks the due date against inclusive bounds. Records
// without a due date never match an active range.
func matchDueRange(r *models.JobRecord, f Filters) bool {
	if r.DueDate == nil {
		return false
	}
	if f.DueFrom != nil && r.DueDate.Before(*f.DueFrom) {
		return false
	}
	if f.DueTo != nil && r.DueDate.After(*f.DueTo) {
		return false
	}
	return true
}

// ParseESI validates a tri-state ESI filter value. Empty means all.
func ParseESI(s string) (ESIMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ESIAll):
		return ESIAll, nil
	case string(ESIOnly), "esi":
		return ESIOnly, nil
	case string(ESIExclude), "non_esi", "non-esi":
		return ESIExclude, nil
	}
	return ESIAll, &InputError{Field: "esi", Value: s}
}

// ParseDateRange validates a due-date range from raw filter input. Either
// bound may be empty. A malformed bound or an inverted range is an
// InputError; callers treat the range filter as not applied.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var lo, hi *time.Time
	if strings.TrimSpace(from) != "" {
		t, ok := normalize.Date(from)
		if !ok {
			return nil, nil, &InputError{Field: "due_from", Value: from}
		}
		lo = &t
	}
	if strings.TrimSpace(to) != "" {
		t, ok := normalize.Date(to)
		if !ok {
			return nil, nil, &InputError{Field: "due_to", Value: to}
		}
		hi = &t
	}
	if lo != nil && hi != nil && hi.Before(*lo) {
		return nil, nil, &InputError{Field: "due_range", Value: from + ".." + to}
	}
	return lo, hi, nil
}
