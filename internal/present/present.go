// Package present maps derived job state to display tokens. It is a pure
// table lookup: no business logic, no rendering technology.
package present

import "github.com/henrietta/dispatch/internal/models"

// Color is a display color token. Values mirror the dispatch board's
// original palette.
type Color string

const (
	ColorUnengineered Color = "#ADD8E6" // light blue
	ColorInWork       Color = "#90EE90" // green
	ColorCanShip      Color = "#90EE90" // green
	ColorPartial      Color = "#FFD93D" // yellow
	ColorNotStarted   Color = "#FFFFFF" // white
	ColorPastDue      Color = "#FF6B6B" // red, overrides status color
	ColorDefault      Color = "#D3D3D3" // gray fallback

	// Purchasing palette.
	ColorPOOverdue Color = "#FF6B6B"
	ColorPODueSoon Color = "#FFD93D"
	ColorPOOnTime  Color = "#90EE90"
)

// statusColors is the base status-to-color table.
var statusColors = map[models.Status]Color{
	models.StatusUnengineered:     ColorUnengineered,
	models.StatusInWork:           ColorInWork,
	models.StatusCanShip:          ColorCanShip,
	models.StatusPartialInventory: ColorPartial,
	models.StatusNotStarted:       ColorNotStarted,
}

// ColorFor returns the row color for a record. Past due overrides the
// status color; ESI never affects row color, it renders as a badge so the
// two cannot visually conflict.
func ColorFor(r *models.JobRecord) Color {
	if r.PastDue {
		return ColorPastDue
	}
	if c, ok := statusColors[r.Status]; ok {
		return c
	}
	return ColorDefault
}

// Badge names rendered alongside the row, independent of row color.
const (
	BadgeESI           = "ESI"
	BadgeMaterialShort = "MATERIAL"
	BadgePastDue       = "PAST DUE"
)

// Badges returns the overlay badges for a record, in display order.
func Badges(r *models.JobRecord) []string {
	var badges []string
	if r.PastDue {
		badges = append(badges, BadgePastDue)
	}
	if r.ESI {
		badges = append(badges, BadgeESI)
	}
	if r.MaterialShort {
		badges = append(badges, BadgeMaterialShort)
	}
	return badges
}
