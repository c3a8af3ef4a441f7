package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/xelth-com/eckslots/internal/models"
)

// fakeSheets keeps worksheets in memory, keyed by title.
type fakeSheets struct {
	sheets   map[string][][]interface{}
	cleared  []string
	ensured  int
	writeErr error
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{sheets: make(map[string][][]interface{})}
}

func (f *fakeSheets) Get(ctx context.Context, id, rng string) ([][]interface{}, error) {
	return f.sheets[rng], nil
}

func (f *fakeSheets) Update(ctx context.Context, id string, data map[string][][]interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for rng, rows := range data {
		f.sheets[strings.TrimSuffix(rng, "!A1")] = rows
	}
	return nil
}

func (f *fakeSheets) Clear(ctx context.Context, id string, ranges []string) error {
	f.cleared = append(f.cleared, ranges...)
	return nil
}

func (f *fakeSheets) EnsureSheets(ctx context.Context, id string, titles []string) error {
	f.ensured++
	return nil
}

func TestSheetStoreRoundTrip(t *testing.T) {
	api := newFakeSheets()
	store := NewSheetStore(api, "sheet-id")
	want := sampleTable(t)

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if api.ensured != 1 {
		t.Errorf("EnsureSheets called %d times, want 1", api.ensured)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sameCells(t, got.Cells, want.Cells)
	if got.Lanes["Street A1"] != want.Lanes["Street A1"] {
		t.Errorf("lane config = %+v", got.Lanes["Street A1"])
	}
	if got.Settings != want.Settings {
		t.Errorf("settings = %+v, want %+v", got.Settings, want.Settings)
	}

	wantClear := "Inventory!A" + strconv.Itoa(len(want.Cells)+2) + ":Z"
	if api.cleared[0] != wantClear {
		t.Errorf("cleared %q, want %q", api.cleared[0], wantClear)
	}
}

func TestSheetStoreWriteFailure(t *testing.T) {
	api := newFakeSheets()
	api.writeErr = errors.New("quota exceeded")
	store := NewSheetStore(api, "sheet-id")

	if err := store.Save(context.Background(), sampleTable(t)); err == nil {
		t.Fatal("expected Save to fail")
	}
	if len(api.cleared) != 0 {
		t.Error("stale rows were cleared after a failed write")
	}
}

func TestSheetStoreEmptySpreadsheet(t *testing.T) {
	tbl, err := NewSheetStore(newFakeSheets(), "sheet-id").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Cells) != 0 || len(tbl.Lanes) != 0 || tbl.Settings.WarehouseCapacity != 0 {
		t.Errorf("expected an empty table, got %+v", tbl)
	}
}

func TestRowsToCellsMissingColumns(t *testing.T) {
	rows := [][]interface{}{
		{"Lane", "Row", "Level", "SlotID"},
		{"Street C2", "14", "1", "41"},
		{"", "1", "1", "01"},
		{"Street C2", 2.0, 3},
	}
	cells := rowsToCells(rows)
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}
	c := cells[0]
	if c.Row != 14 || c.Level != 1 || c.SlotID != "41" || c.Status != "" || c.Expiry != nil {
		t.Errorf("first cell = %+v", c)
	}
	if cells[1].Row != 2 || cells[1].Level != 3 || cells[1].SlotID != "" {
		t.Errorf("short row = %+v", cells[1])
	}
}

func TestRowsToCellsLegacyHeaders(t *testing.T) {
	rows := [][]interface{}{
		{"Rua", "Fileira", "Nivel", "ID", "Lote", "Validade", "Status", "Cliente", "Data_Entrada"},
		{"Rua A1", "1", "3", "--", "", "", "BLOQUEADO", "", ""},
		{"Rua A1", "14", "1", "41", "L9", "2026-12-31", "Disponível", "", "04/05/2026 09:30"},
		{"Rua A1", "13", "1", "38", "L9", "31/12/2026", "Reservado", "ACME", ""},
	}
	cells := rowsToCells(rows)
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(cells))
	}
	if cells[0].Lane != "Street A1" || cells[0].Status != models.StatusBlocked {
		t.Errorf("blocked cell = %+v", cells[0])
	}
	if cells[1].Status != models.StatusAvailable || cells[1].Lot != "L9" || cells[1].IntakeTimestamp != "04/05/2026 09:30" {
		t.Errorf("available cell = %+v", cells[1])
	}
	if cells[1].Expiry == nil || cells[2].Expiry == nil || !cells[1].Expiry.Equal(*cells[2].Expiry) {
		t.Errorf("expiry dates not parsed alike: %v %v", cells[1].Expiry, cells[2].Expiry)
	}
	if cells[2].Status != models.StatusReserved || cells[2].Client != "ACME" {
		t.Errorf("reserved cell = %+v", cells[2])
	}
}

func TestSheetStoreReadsLegacyWorksheets(t *testing.T) {
	api := newFakeSheets()
	api.sheets["Config_Ruas"] = [][]interface{}{
		{"Rua", "Capacidade", "Altura"},
		{"Rua B2", "20", "2"},
	}
	api.sheets["Config_Global"] = [][]interface{}{
		{"cap_galpao", "cap_padrao"},
		{"1500", "30"},
	}

	tbl, err := NewSheetStore(api, "sheet-id").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg := tbl.Lanes["Street B2"]; cfg.Capacity != 20 || cfg.MaxHeight != 2 {
		t.Errorf("lane config = %+v", cfg)
	}
	if tbl.Settings.WarehouseCapacity != 1500 || tbl.Settings.DefaultCapacity != 30 {
		t.Errorf("settings = %+v", tbl.Settings)
	}
}

func TestHeaderColumnsIgnoresCaseAndDuplicates(t *testing.T) {
	cols := headerColumns([]interface{}{" lane ", "LANE", "Capacity"})
	if cols["lane"] != 0 || cols["capacity"] != 2 {
		t.Errorf("columns = %v", cols)
	}
}
