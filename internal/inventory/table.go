// Package inventory holds the pallet table of the warehouse and the policies
// that place, reserve and dispatch pallets inside a lane.
package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/xelth-com/eckslots/internal/layout"
	"github.com/xelth-com/eckslots/internal/models"
)

// Table is the full inventory: every cell of every built lane, the lane
// configurations and the building settings. It is the unit of persistence.
type Table struct {
	Cells    []models.Cell                `json:"cells"`
	Lanes    map[string]models.LaneConfig `json:"lanes"`
	Settings models.WarehouseSettings     `json:"settings"`
}

// NewTable returns an empty table with default settings.
func NewTable() *Table {
	return &Table{
		Lanes: make(map[string]models.LaneConfig),
		Settings: models.WarehouseSettings{
			WarehouseCapacity: models.DefaultWarehouseCapacity,
			DefaultCapacity:   models.DefaultLaneCapacity,
		},
	}
}

// Clone returns a deep copy so an operation can be discarded if saving fails.
func (t *Table) Clone() *Table {
	c := &Table{
		Cells:    make([]models.Cell, len(t.Cells)),
		Lanes:    make(map[string]models.LaneConfig, len(t.Lanes)),
		Settings: t.Settings,
	}
	copy(c.Cells, t.Cells)
	for i := range c.Cells {
		if e := c.Cells[i].Expiry; e != nil {
			d := *e
			c.Cells[i].Expiry = &d
		}
	}
	for name, cfg := range t.Lanes {
		c.Lanes[name] = cfg
	}
	return c
}

// HasLane reports whether the lane has been configured and built.
func (t *Table) HasLane(lane string) bool {
	if _, ok := t.Lanes[lane]; !ok {
		return false
	}
	for i := range t.Cells {
		if t.Cells[i].Lane == lane {
			return true
		}
	}
	return false
}

// LaneConfig returns the stored configuration of a lane.
func (t *Table) LaneConfig(lane string) (models.LaneConfig, bool) {
	cfg, ok := t.Lanes[lane]
	return cfg, ok
}

// LaneCells returns a copy of the lane's cells in table order.
func (t *Table) LaneCells(lane string) []models.Cell {
	var cells []models.Cell
	for _, i := range t.laneIndexes(lane) {
		cells = append(cells, t.Cells[i])
	}
	return cells
}

// RebuildLane regenerates every cell of the lane, discarding their contents.
// Cells of other lanes are left untouched.
func (t *Table) RebuildLane(lane string, capacity, maxHeight int) error {
	cells, err := layout.BuildLane(lane, capacity, maxHeight)
	if err != nil {
		return err
	}

	kept := t.Cells[:0:0]
	for _, c := range t.Cells {
		if c.Lane != lane {
			kept = append(kept, c)
		}
	}
	t.Cells = append(kept, cells...)

	if t.Lanes == nil {
		t.Lanes = make(map[string]models.LaneConfig)
	}
	t.Lanes[lane] = models.LaneConfig{
		Lane:      lane,
		Capacity:  layout.EffectiveCapacity(capacity, maxHeight),
		MaxHeight: maxHeight,
	}
	return nil
}

// EnsureLane builds a lane on first reference. A lane with a configuration but
// no cells is rebuilt from that configuration; an unknown lane gets the default
// capacity at full height. Reports whether anything changed.
func (t *Table) EnsureLane(lane string) (bool, error) {
	if t.HasLane(lane) {
		return false, nil
	}
	capacity, height := t.Settings.DefaultCapacity, models.DefaultLaneHeight
	if cfg, ok := t.Lanes[lane]; ok {
		capacity, height = cfg.Capacity, cfg.MaxHeight
	}
	if capacity < layout.MinCapacity || capacity > layout.MaxCapacity {
		capacity = models.DefaultLaneCapacity
	}
	if err := t.RebuildLane(lane, capacity, height); err != nil {
		return false, fmt.Errorf("build lane %s: %w", lane, err)
	}
	return true, nil
}

// LaneOccupied counts pallets currently stored in the lane.
func (t *Table) LaneOccupied(lane string) int {
	n := 0
	for _, i := range t.laneIndexes(lane) {
		if t.Cells[i].Occupied() {
			n++
		}
	}
	return n
}

// Normalize backfills data written by older versions or partially filled
// backends: missing lane geometry, blank statuses, legacy blocked ids and
// numeric ids that lost their leading zero.
func (t *Table) Normalize() {
	if t.Lanes == nil {
		t.Lanes = make(map[string]models.LaneConfig)
	}
	if t.Settings.WarehouseCapacity <= 0 {
		t.Settings.WarehouseCapacity = models.DefaultWarehouseCapacity
	}
	if t.Settings.DefaultCapacity < layout.MinCapacity || t.Settings.DefaultCapacity > layout.MaxCapacity {
		t.Settings.DefaultCapacity = models.DefaultLaneCapacity
	}

	numbered := make(map[string][]models.Cell)
	for i := range t.Cells {
		c := &t.Cells[i]
		normalizeCell(c)
		if !c.Blocked() {
			numbered[c.Lane] = append(numbered[c.Lane], *c)
		}
	}

	for name, cells := range numbered {
		if _, ok := t.Lanes[name]; ok {
			continue
		}
		cfg, ok := inferLaneConfig(name, cells)
		if !ok {
			cfg = models.LaneConfig{Lane: name, Capacity: models.DefaultLaneCapacity, MaxHeight: models.DefaultLaneHeight}
		}
		t.Lanes[name] = cfg
	}

	for name, cfg := range t.Lanes {
		cfg.Lane = name
		if cfg.MaxHeight < layout.MinHeight || cfg.MaxHeight > layout.MaxHeight {
			cfg.MaxHeight = models.DefaultLaneHeight
		}
		if cfg.Capacity < layout.MinCapacity || cfg.Capacity > layout.MaxCapacity {
			cfg.Capacity = models.DefaultLaneCapacity
		}
		cfg.Capacity = layout.EffectiveCapacity(cfg.Capacity, cfg.MaxHeight)
		t.Lanes[name] = cfg
	}
}

// inferLaneConfig recovers the geometry of a lane stored without its
// configuration: the lowest height whose layout numbers exactly the given
// cells. ok is false when no height reproduces them.
func inferLaneConfig(lane string, numbered []models.Cell) (models.LaneConfig, bool) {
	stored := make(map[layout.Position]string, len(numbered))
	for _, c := range numbered {
		stored[layout.Position{Row: c.Row, Level: c.Level}] = c.SlotID
	}
	if len(stored) != len(numbered) {
		return models.LaneConfig{}, false
	}

	capacity := len(numbered)
	for h := layout.MinHeight; h <= layout.MaxHeight; h++ {
		built, err := layout.BuildLane(lane, capacity, h)
		if err != nil {
			continue
		}
		matched := 0
		for _, c := range built {
			if c.Blocked() {
				continue
			}
			if stored[layout.Position{Row: c.Row, Level: c.Level}] != c.SlotID {
				matched = -1
				break
			}
			matched++
		}
		if matched == capacity {
			return models.LaneConfig{Lane: lane, Capacity: capacity, MaxHeight: h}, true
		}
	}
	return models.LaneConfig{}, false
}

func normalizeCell(c *models.Cell) {
	if layout.IsBlockedID(c.SlotID) {
		c.Clear()
		c.SlotID = models.BlockedSlotID
		c.Status = models.StatusBlocked
		return
	}
	if n, ok := layout.ParseSlotID(c.SlotID); ok {
		c.SlotID = layout.FormatSlotID(n)
	}

	switch c.Status {
	case models.StatusAvailable, models.StatusReserved:
	case models.StatusEmpty:
		c.Clear()
	default:
		// Unknown or blank status on a numbered cell: infer from its contents.
		switch {
		case c.Client != "":
			c.Status = models.StatusReserved
		case c.Lot != "" || c.Expiry != nil:
			c.Status = models.StatusAvailable
		default:
			c.Clear()
		}
	}
	if c.Expiry != nil {
		d := dateOnly(*c.Expiry)
		c.Expiry = &d
	}
}

// laneIndexes returns positions in t.Cells belonging to lane, in table order.
func (t *Table) laneIndexes(lane string) []int {
	var idx []int
	for i := range t.Cells {
		if t.Cells[i].Lane == lane {
			idx = append(idx, i)
		}
	}
	return idx
}

// selectCells returns indexes of the lane's cells matching keep, in table order.
func (t *Table) selectCells(lane string, keep func(models.Cell) bool) []int {
	var idx []int
	for _, i := range t.laneIndexes(lane) {
		if keep(t.Cells[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// sortBySlot orders cell indexes by numeric slot id. Cells without a numeric
// id sort last; equal ids keep table order.
func (t *Table) sortBySlot(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return slotLess(t.Cells[idx[a]].SlotID, t.Cells[idx[b]].SlotID)
	})
}

// slotLess compares slot ids as numbers, so "9" sorts before "10".
func slotLess(a, b string) bool {
	na, oka := layout.ParseSlotID(a)
	nb, okb := layout.ParseSlotID(b)
	if oka != okb {
		return oka
	}
	return na < nb
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
