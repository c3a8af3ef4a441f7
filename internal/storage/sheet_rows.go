package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/eckslots/internal/models"
)

var (
	inventoryHeader = []string{"Lane", "Row", "Level", "SlotID", "Status", "Lot", "Expiry", "Client", "IntakeTimestamp"}
	lanesHeader     = []string{"Lane", "Capacity", "MaxHeight"}
	settingsHeader  = []string{"WarehouseCapacity", "DefaultCapacity"}
)

const sheetDateLayout = "2006-01-02"

// Dates typed into the sheet by hand come in any of these.
var sheetDateLayouts = []string{sheetDateLayout, "02/01/2006", "02.01.2006", time.RFC3339}

// headerAliases lists the column titles of spreadsheets written by the
// earlier Portuguese-language tool, so those sheets import unchanged.
var headerAliases = map[string][]string{
	"lane":              {"rua"},
	"row":               {"fileira"},
	"level":             {"nivel"},
	"slotid":            {"id"},
	"lot":               {"lote"},
	"expiry":            {"validade"},
	"client":            {"cliente"},
	"intaketimestamp":   {"data_entrada"},
	"capacity":          {"capacidade"},
	"maxheight":         {"altura"},
	"warehousecapacity": {"cap_galpao"},
	"defaultcapacity":   {"cap_padrao"},
}

const legacyLanePrefix = "Rua "

var legacyStatuses = map[string]models.CellStatus{
	"VAZIO":      models.StatusEmpty,
	"DISPONÍVEL": models.StatusAvailable,
	"DISPONIVEL": models.StatusAvailable,
	"RESERVADO":  models.StatusReserved,
	"BLOQUEADO":  models.StatusBlocked,
}

// parseStatus upper-cases a status and maps legacy names. Anything else is
// passed through for Normalize to resolve from the cell contents.
func parseStatus(v string) models.CellStatus {
	v = strings.ToUpper(v)
	if st, ok := legacyStatuses[v]; ok {
		return st
	}
	return models.CellStatus(v)
}

// columns maps lower-cased header names to their index.
type columns map[string]int

func headerColumns(header []interface{}) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(fmt.Sprint(h)))
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}
	return cols
}

// str returns the trimmed value of a named column, "" when the column or cell is absent.
func (c columns) str(row []interface{}, name string) string {
	key := strings.ToLower(name)
	i, ok := c[key]
	for _, alias := range headerAliases[key] {
		if ok {
			break
		}
		i, ok = c[alias]
	}
	if !ok || i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// num parses a numeric column leniently; "3", "3.0" and 3 all read as 3.
func (c columns) num(row []interface{}, name string) int {
	v := c.str(row, name)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func (c columns) date(row []interface{}, name string) *time.Time {
	v := c.str(row, name)
	if v == "" {
		return nil
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// laneName rewrites legacy "Rua A1" names to "Street A1".
func laneName(v string) string {
	if strings.HasPrefix(v, legacyLanePrefix) {
		return "Street " + strings.TrimSpace(strings.TrimPrefix(v, legacyLanePrefix))
	}
	return v
}

func headerRow(names []string) []interface{} {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	return row
}

func cellsToRows(cells []models.Cell) [][]interface{} {
	rows := make([][]interface{}, 0, len(cells)+1)
	rows = append(rows, headerRow(inventoryHeader))
	for _, c := range cells {
		expiry := ""
		if c.Expiry != nil {
			expiry = c.Expiry.Format(sheetDateLayout)
		}
		rows = append(rows, []interface{}{
			c.Lane, c.Row, c.Level, c.SlotID, string(c.Status),
			c.Lot, expiry, c.Client, c.IntakeTimestamp,
		})
	}
	return rows
}

// rowsToCells reads the Inventory worksheet. Rows without a lane are skipped.
func rowsToCells(rows [][]interface{}) []models.Cell {
	if len(rows) == 0 {
		return nil
	}
	cols := headerColumns(rows[0])
	var cells []models.Cell
	for _, row := range rows[1:] {
		lane := laneName(cols.str(row, "Lane"))
		if lane == "" {
			continue
		}
		cells = append(cells, models.Cell{
			Lane:            lane,
			Row:             cols.num(row, "Row"),
			Level:           cols.num(row, "Level"),
			SlotID:          cols.str(row, "SlotID"),
			Status:          parseStatus(cols.str(row, "Status")),
			Lot:             cols.str(row, "Lot"),
			Expiry:          cols.date(row, "Expiry"),
			Client:          cols.str(row, "Client"),
			IntakeTimestamp: cols.str(row, "IntakeTimestamp"),
		})
	}
	return cells
}

func lanesToRows(lanes map[string]models.LaneConfig) [][]interface{} {
	rows := [][]interface{}{headerRow(lanesHeader)}
	names := make([]string, 0, len(lanes))
	for name := range lanes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg := lanes[name]
		rows = append(rows, []interface{}{name, cfg.Capacity, cfg.MaxHeight})
	}
	return rows
}

func rowsToLanes(rows [][]interface{}) map[string]models.LaneConfig {
	lanes := make(map[string]models.LaneConfig)
	if len(rows) == 0 {
		return lanes
	}
	cols := headerColumns(rows[0])
	for _, row := range rows[1:] {
		name := laneName(cols.str(row, "Lane"))
		if name == "" {
			continue
		}
		lanes[name] = models.LaneConfig{
			Lane:      name,
			Capacity:  cols.num(row, "Capacity"),
			MaxHeight: cols.num(row, "MaxHeight"),
		}
	}
	return lanes
}

func settingsToRows(s models.WarehouseSettings) [][]interface{} {
	return [][]interface{}{
		headerRow(settingsHeader),
		{s.WarehouseCapacity, s.DefaultCapacity},
	}
}

func rowsToSettings(rows [][]interface{}) models.WarehouseSettings {
	if len(rows) < 2 {
		return models.WarehouseSettings{}
	}
	cols := headerColumns(rows[0])
	return models.WarehouseSettings{
		WarehouseCapacity: cols.num(rows[1], "WarehouseCapacity"),
		DefaultCapacity:   cols.num(rows[1], "DefaultCapacity"),
	}
}
