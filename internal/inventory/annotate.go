package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/xelth-com/eckslots/internal/clock"
	"github.com/xelth-com/eckslots/internal/models"
)

// DefaultExpiryAlertDays is the FEFO window: stock expiring within it is flagged.
const DefaultExpiryAlertDays = 180

// VisualStatus is how a cell is drawn on the lane map.
type VisualStatus string

const (
	VisualEmpty       VisualStatus = VisualStatus(models.StatusEmpty)
	VisualAvailable   VisualStatus = VisualStatus(models.StatusAvailable)
	VisualReserved    VisualStatus = VisualStatus(models.StatusReserved)
	VisualBlocked     VisualStatus = VisualStatus(models.StatusBlocked)
	VisualLotBoundary VisualStatus = "LOT_BOUNDARY"
)

// CellView is a cell plus its derived display state. Never persisted.
type CellView struct {
	models.Cell
	Visual      VisualStatus `json:"visual_status"`
	ExpiryAlert bool         `json:"expiry_alert"`
}

// labelClientChars is how much of the client name fits on a map cell.
const labelClientChars = 8

// TruncateRunes shortens s to at most n characters without splitting one.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Label is the short text printed in the cell on the lane map.
func (v CellView) Label() string {
	switch {
	case v.Blocked():
		return "---"
	case v.Occupied():
		return fmt.Sprintf("P:%s\n%s\n%s", v.SlotID, v.Lot, TruncateRunes(v.Client, labelClientChars))
	default:
		return "P:" + v.SlotID
	}
}

// Annotate derives the display state of every cell in the lane.
//
// Walking the slots in numeric order, an occupied cell whose lot differs from
// the previous occupied cell is a LOT_BOUNDARY. An occupied cell expiring
// within alertDays of today raises an expiry alert. Results come back in
// table order.
func (t *Table) Annotate(lane string, today time.Time, alertDays int) []CellView {
	idx := t.laneIndexes(lane)
	views := make([]CellView, len(idx))
	pos := make(map[int]int, len(idx))
	for n, i := range idx {
		c := t.Cells[i]
		views[n] = CellView{Cell: c, Visual: VisualStatus(c.Status)}
		pos[i] = n
	}

	ordered := t.selectCells(lane, func(c models.Cell) bool { return !c.Blocked() })
	t.sortBySlot(ordered)

	var prevLot *string
	for _, i := range ordered {
		c := t.Cells[i]
		if !c.Occupied() {
			continue
		}
		v := &views[pos[i]]
		if c.Expiry != nil && clock.DaysUntil(today, *c.Expiry) <= alertDays {
			v.ExpiryAlert = true
		}
		if prevLot != nil && c.Lot != *prevLot {
			v.Visual = VisualLotBoundary
		}
		lot := c.Lot
		prevLot = &lot
	}
	return views
}

// Grid arranges a lane's views as the map is drawn: top level first, and
// within a level the back row first so the exit ends up on the right.
// grid[0] is level 3, grid[0][0] is row 14.
func Grid(views []CellView) [][]CellView {
	grid := make([][]CellView, models.LaneMaxLevels)
	for i := range grid {
		grid[i] = make([]CellView, models.LaneRows)
	}
	for _, v := range views {
		if v.Level < 1 || v.Level > models.LaneMaxLevels || v.Row < 1 || v.Row > models.LaneRows {
			continue
		}
		grid[models.LaneMaxLevels-v.Level][models.LaneRows-v.Row] = v
	}
	return grid
}

// SortBySlot orders views by numeric slot id, blocked cells last.
func SortBySlot(views []CellView) {
	sort.SliceStable(views, func(a, b int) bool {
		return slotLess(views[a].SlotID, views[b].SlotID)
	})
}
