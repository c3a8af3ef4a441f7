package inventory

import (
	"fmt"
	"testing"
	"time"

	"github.com/xelth-com/eckslots/internal/models"
)

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// newTestTable returns a table with one built lane.
func newTestTable(t *testing.T, lane string, capacity, height int) *Table {
	t.Helper()
	tbl := NewTable()
	if err := tbl.RebuildLane(lane, capacity, height); err != nil {
		t.Fatalf("RebuildLane: %v", err)
	}
	return tbl
}

func countStatus(tbl *Table, lane string, status models.CellStatus) int {
	n := 0
	for _, c := range tbl.LaneCells(lane) {
		if c.Status == status {
			n++
		}
	}
	return n
}

func cellBySlot(t *testing.T, tbl *Table, lane, slot string) models.Cell {
	t.Helper()
	for _, c := range tbl.LaneCells(lane) {
		if c.SlotID == slot {
			return c
		}
	}
	t.Fatalf("slot %s not found in %s", slot, lane)
	return models.Cell{}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func formatID(n int) string {
	return fmt.Sprintf("%02d", n)
}
