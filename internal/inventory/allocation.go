package inventory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xelth-com/eckslots/internal/models"
)

// TimestampLayout formats the intake time stored on each pallet.
const TimestampLayout = "02/01/2006 15:04"

// DispatchMode selects which pallets a dispatch may remove.
type DispatchMode string

const (
	// DispatchReservedOnly removes reserved pallets only.
	DispatchReservedOnly DispatchMode = "RESERVED_ONLY"
	// DispatchDirect removes available or reserved pallets.
	DispatchDirect DispatchMode = "DIRECT"
)

// ParseDispatchMode accepts the mode names case-insensitively. Blank means RESERVED_ONLY.
func ParseDispatchMode(s string) (DispatchMode, error) {
	switch DispatchMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", DispatchReservedOnly:
		return DispatchReservedOnly, nil
	case DispatchDirect:
		return DispatchDirect, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDispatchMode, s)
}

// ExpiryLayouts are the accepted expiry date formats, ISO first.
var ExpiryLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseExpiry reads an expiry date. Blank means no expiry.
func ParseExpiry(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range ExpiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
}

// Intake places up to quantity pallets of one lot into EMPTY cells of the lane.
// The back rows fill first, bottom level before top, keeping the cells near
// the exit free for longer. Returns how many pallets were placed; a lane
// without enough room is filled as far as it goes.
func (t *Table) Intake(lane, lot string, expiry *time.Time, quantity int, now time.Time) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	idx := t.selectCells(lane, func(c models.Cell) bool { return c.Status == models.StatusEmpty })
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := t.Cells[idx[a]], t.Cells[idx[b]]
		if ca.Row != cb.Row {
			return ca.Row > cb.Row
		}
		return ca.Level < cb.Level
	})

	placed := min(quantity, len(idx))
	stamp := now.Format(TimestampLayout)
	lot = strings.TrimSpace(lot)
	for _, i := range idx[:placed] {
		c := &t.Cells[i]
		c.Status = models.StatusAvailable
		c.Lot = lot
		c.Client = ""
		c.IntakeTimestamp = stamp
		c.Expiry = nil
		if expiry != nil {
			d := dateOnly(*expiry)
			c.Expiry = &d
		}
	}
	return placed, nil
}

// Reserve marks up to quantity AVAILABLE pallets for a client, lowest slot
// number first. The client name is stored upper-cased.
func (t *Table) Reserve(lane, client string, quantity int) (int, error) {
	client = strings.ToUpper(strings.TrimSpace(client))
	if client == "" {
		return 0, ErrEmptyClient
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	idx := t.selectCells(lane, func(c models.Cell) bool { return c.Status == models.StatusAvailable })
	t.sortBySlot(idx)

	reserved := min(quantity, len(idx))
	for _, i := range idx[:reserved] {
		t.Cells[i].Status = models.StatusReserved
		t.Cells[i].Client = client
	}
	return reserved, nil
}

// Dispatch empties quantity pallets, lowest slot number first. Either all of
// them leave or none do: asking for more than the mode allows returns
// ErrInsufficientStock with the table unchanged.
func (t *Table) Dispatch(lane string, quantity int, mode DispatchMode) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	var eligible func(models.Cell) bool
	switch mode {
	case DispatchReservedOnly:
		eligible = func(c models.Cell) bool { return c.Status == models.StatusReserved }
	case DispatchDirect:
		eligible = models.Cell.Occupied
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDispatchMode, mode)
	}

	idx := t.selectCells(lane, eligible)
	if quantity > len(idx) {
		return 0, fmt.Errorf("%w: requested %d, %d eligible in %s", ErrInsufficientStock, quantity, len(idx), lane)
	}
	t.sortBySlot(idx)

	for _, i := range idx[:quantity] {
		t.Cells[i].Clear()
	}
	return quantity, nil
}
