package inventory

import (
	"errors"
	"testing"

	"github.com/xelth-com/eckslots/internal/models"
)

const laneA1 = "Street A1"

func TestIntakeFillOrder(t *testing.T) {
	tbl := newTestTable(t, laneA1, 41, 3)

	placed, err := tbl.Intake(laneA1, "L1", date(2027, 1, 1), 4, testNow)
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	if placed != 4 {
		t.Fatalf("placed = %d, want 4", placed)
	}

	// Back row first, bottom level up, then the next row forward.
	want := map[[2]int]bool{{14, 1}: true, {14, 2}: true, {14, 3}: true, {13, 1}: true}
	for _, c := range tbl.LaneCells(laneA1) {
		filled := c.Status == models.StatusAvailable
		if filled != want[[2]int{c.Row, c.Level}] {
			t.Errorf("cell %d/%d filled=%v", c.Row, c.Level, filled)
		}
		if filled {
			if c.Lot != "L1" || c.Expiry == nil || c.IntakeTimestamp != "04/05/2026 09:30" {
				t.Errorf("cell %d/%d contents = %+v", c.Row, c.Level, c)
			}
		}
	}
}

func TestIntakeCountsAndPartialFill(t *testing.T) {
	tbl := newTestTable(t, laneA1, 5, 2)

	placed, err := tbl.Intake(laneA1, "L1", nil, 3, testNow)
	if err != nil || placed != 3 {
		t.Fatalf("Intake = %d, %v; want 3", placed, err)
	}
	if got := countStatus(tbl, laneA1, models.StatusEmpty); got != 2 {
		t.Errorf("empty = %d, want 2", got)
	}
	if got := countStatus(tbl, laneA1, models.StatusAvailable); got != 3 {
		t.Errorf("available = %d, want 3", got)
	}

	placed, err = tbl.Intake(laneA1, "L2", nil, 10, testNow)
	if err != nil {
		t.Fatalf("partial Intake: %v", err)
	}
	if placed != 2 {
		t.Errorf("partial placed = %d, want 2", placed)
	}
	for _, c := range tbl.LaneCells(laneA1) {
		if c.Lot == "L2" && c.Status != models.StatusAvailable {
			t.Errorf("L2 pallet in %s cell", c.Status)
		}
	}
	// L1 pallets untouched by the second intake.
	l1 := 0
	for _, c := range tbl.LaneCells(laneA1) {
		if c.Lot == "L1" {
			l1++
		}
	}
	if l1 != 3 {
		t.Errorf("L1 pallets = %d, want 3", l1)
	}

	placed, err = tbl.Intake(laneA1, "L3", nil, 1, testNow)
	if err != nil || placed != 0 {
		t.Errorf("Intake into full lane = %d, %v", placed, err)
	}
}

func TestIntakeInvalidQuantity(t *testing.T) {
	tbl := newTestTable(t, laneA1, 5, 2)
	if _, err := tbl.Intake(laneA1, "L1", nil, 0, testNow); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("err = %v, want ErrInvalidQuantity", err)
	}
}

func TestReserveBySlotNumber(t *testing.T) {
	tbl := newTestTable(t, laneA1, 12, 1)
	if _, err := tbl.Intake(laneA1, "L1", nil, 12, testNow); err != nil {
		t.Fatal(err)
	}

	reserved, err := tbl.Reserve(laneA1, "  acme ", 10)
	if err != nil || reserved != 10 {
		t.Fatalf("Reserve = %d, %v", reserved, err)
	}

	// Numeric order: 01..10 reserved, 11 and 12 still available.
	for n := 1; n <= 12; n++ {
		c := cellBySlot(t, tbl, laneA1, formatID(n))
		wantStatus := models.StatusReserved
		if n > 10 {
			wantStatus = models.StatusAvailable
		}
		if c.Status != wantStatus {
			t.Errorf("slot %02d status = %s, want %s", n, c.Status, wantStatus)
		}
		if wantStatus == models.StatusReserved && c.Client != "ACME" {
			t.Errorf("slot %02d client = %q, want ACME", n, c.Client)
		}
	}

	reserved, err = tbl.Reserve(laneA1, "other", 5)
	if err != nil || reserved != 2 {
		t.Errorf("partial Reserve = %d, %v; want 2", reserved, err)
	}
}

func TestReserveValidation(t *testing.T) {
	tbl := newTestTable(t, laneA1, 5, 2)
	if _, err := tbl.Reserve(laneA1, "   ", 1); !errors.Is(err, ErrEmptyClient) {
		t.Errorf("err = %v, want ErrEmptyClient", err)
	}
	if _, err := tbl.Reserve(laneA1, "X", -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("err = %v, want ErrInvalidQuantity", err)
	}
}

func TestReserveThenDispatchClearsCells(t *testing.T) {
	tbl := newTestTable(t, laneA1, 6, 2)
	if _, err := tbl.Intake(laneA1, "L1", date(2027, 2, 1), 6, testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Reserve(laneA1, "X", 4); err != nil {
		t.Fatal(err)
	}

	removed, err := tbl.Dispatch(laneA1, 4, DispatchReservedOnly)
	if err != nil || removed != 4 {
		t.Fatalf("Dispatch = %d, %v", removed, err)
	}

	for n := 1; n <= 4; n++ {
		c := cellBySlot(t, tbl, laneA1, formatID(n))
		if c.Status != models.StatusEmpty || c.Lot != "" || c.Expiry != nil || c.Client != "" || c.IntakeTimestamp != "" {
			t.Errorf("slot %02d not cleared: %+v", n, c)
		}
	}
	if got := countStatus(tbl, laneA1, models.StatusAvailable); got != 2 {
		t.Errorf("available = %d, want 2", got)
	}
}

func TestDispatchAllOrNothing(t *testing.T) {
	tbl := newTestTable(t, laneA1, 6, 2)
	if _, err := tbl.Intake(laneA1, "L1", nil, 5, testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Reserve(laneA1, "X", 2); err != nil {
		t.Fatal(err)
	}
	before := tbl.Clone()

	_, err := tbl.Dispatch(laneA1, 3, DispatchReservedOnly)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	_, err = tbl.Dispatch(laneA1, 6, DispatchDirect)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("direct err = %v, want ErrInsufficientStock", err)
	}

	for i := range before.Cells {
		a, b := before.Cells[i], tbl.Cells[i]
		if a.Status != b.Status || a.Lot != b.Lot || a.Client != b.Client {
			t.Fatalf("cell %d changed after rejected dispatch: %+v -> %+v", i, a, b)
		}
	}
}

func TestDispatchDirectTakesLowestSlots(t *testing.T) {
	tbl := newTestTable(t, laneA1, 6, 2)
	if _, err := tbl.Intake(laneA1, "L1", nil, 6, testNow); err != nil {
		t.Fatal(err)
	}
	// Reserve 01..02, then direct dispatch takes 01..03 regardless of status.
	if _, err := tbl.Reserve(laneA1, "X", 2); err != nil {
		t.Fatal(err)
	}
	removed, err := tbl.Dispatch(laneA1, 3, DispatchDirect)
	if err != nil || removed != 3 {
		t.Fatalf("Dispatch = %d, %v", removed, err)
	}
	for n := 1; n <= 6; n++ {
		c := cellBySlot(t, tbl, laneA1, formatID(n))
		wantEmpty := n <= 3
		if (c.Status == models.StatusEmpty) != wantEmpty {
			t.Errorf("slot %02d status = %s", n, c.Status)
		}
	}
}

func TestDispatchInvalidMode(t *testing.T) {
	tbl := newTestTable(t, laneA1, 6, 2)
	if _, err := tbl.Dispatch(laneA1, 1, DispatchMode("ALL")); !errors.Is(err, ErrInvalidDispatchMode) {
		t.Errorf("err = %v, want ErrInvalidDispatchMode", err)
	}
}

func TestParseDispatchMode(t *testing.T) {
	tests := map[string]DispatchMode{
		"":              DispatchReservedOnly,
		"reserved_only": DispatchReservedOnly,
		"DIRECT":        DispatchDirect,
		" direct ":      DispatchDirect,
	}
	for in, want := range tests {
		got, err := ParseDispatchMode(in)
		if err != nil || got != want {
			t.Errorf("ParseDispatchMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDispatchMode("everything"); !errors.Is(err, ErrInvalidDispatchMode) {
		t.Errorf("err = %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	tbl := newTestTable(t, laneA1, 3, 2)

	if n, err := tbl.Intake(laneA1, "L1", nil, 3, testNow); err != nil || n != 3 {
		t.Fatalf("Intake = %d, %v", n, err)
	}
	if n, err := tbl.Reserve(laneA1, "X", 2); err != nil || n != 2 {
		t.Fatalf("Reserve = %d, %v", n, err)
	}
	if n, err := tbl.Dispatch(laneA1, 2, DispatchReservedOnly); err != nil || n != 2 {
		t.Fatalf("Dispatch = %d, %v", n, err)
	}

	if got := countStatus(tbl, laneA1, models.StatusAvailable); got != 1 {
		t.Errorf("available = %d, want 1", got)
	}
	if got := countStatus(tbl, laneA1, models.StatusEmpty); got != 2 {
		t.Errorf("empty = %d, want 2", got)
	}
	if got := countStatus(tbl, laneA1, models.StatusReserved); got != 0 {
		t.Errorf("reserved = %d, want 0", got)
	}
	for _, c := range tbl.LaneCells(laneA1) {
		if c.Status == models.StatusAvailable && c.Lot != "L1" {
			t.Errorf("remaining pallet lot = %q, want L1", c.Lot)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	for _, in := range []string{"2026-12-31", "31/12/2026", " 2026-12-31 "} {
		got, err := ParseExpiry(in)
		if err != nil || got == nil || !got.Equal(*date(2026, 12, 31)) {
			t.Errorf("ParseExpiry(%q) = %v, %v", in, got, err)
		}
	}
	if got, err := ParseExpiry(""); got != nil || err != nil {
		t.Errorf("ParseExpiry(\"\") = %v, %v", got, err)
	}
	if _, err := ParseExpiry("next week"); !errors.Is(err, ErrInvalidExpiry) {
		t.Errorf("ParseExpiry(next week) err = %v", err)
	}
}
