package inventory

import (
	"sort"
	"time"

	"github.com/xelth-com/eckslots/internal/models"
)

// ReportRow is one line of the per-lane FEFO compliance listing.
type ReportRow struct {
	SlotID          string            `json:"slot_id"`
	Row             int               `json:"row"`
	Level           int               `json:"level"`
	Lot             string            `json:"lot"`
	Expiry          *time.Time        `json:"expiry,omitempty"`
	Status          models.CellStatus `json:"status"`
	Visual          VisualStatus      `json:"visual_status"`
	Client          string            `json:"client"`
	ExpiryAlert     bool              `json:"expiry_alert"`
	IntakeTimestamp string            `json:"intake_timestamp,omitempty"`
}

// Report lists the occupied cells of a lane in slot order with their FEFO flag.
func (t *Table) Report(lane string, today time.Time, alertDays int) []ReportRow {
	views := t.Annotate(lane, today, alertDays)
	SortBySlot(views)

	var rows []ReportRow
	for _, v := range views {
		if !v.Occupied() {
			continue
		}
		rows = append(rows, ReportRow{
			SlotID:          v.SlotID,
			Row:             v.Row,
			Level:           v.Level,
			Lot:             v.Lot,
			Expiry:          v.Expiry,
			Status:          v.Status,
			Visual:          v.Visual,
			Client:          v.Client,
			ExpiryAlert:     v.ExpiryAlert,
			IntakeTimestamp: v.IntakeTimestamp,
		})
	}
	return rows
}

// LaneSummary counts cells per status in one lane.
type LaneSummary struct {
	Lane      string `json:"lane"`
	Capacity  int    `json:"capacity"`
	MaxHeight int    `json:"max_height"`
	Empty     int    `json:"empty"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
	Blocked   int    `json:"blocked"`
}

// Dashboard is the building-wide occupancy picture.
type Dashboard struct {
	Occupied          int           `json:"occupied"`
	WarehouseCapacity int           `json:"warehouse_capacity"`
	OccupancyPercent  float64       `json:"occupancy_percent"`
	Lanes             []LaneSummary `json:"lanes"`
}

// Dashboard totals pallets across every built lane against the building capacity.
func (t *Table) Dashboard() Dashboard {
	summaries := make(map[string]*LaneSummary, len(t.Lanes))
	for name, cfg := range t.Lanes {
		summaries[name] = &LaneSummary{Lane: name, Capacity: cfg.Capacity, MaxHeight: cfg.MaxHeight}
	}

	d := Dashboard{WarehouseCapacity: t.Settings.WarehouseCapacity}
	for _, c := range t.Cells {
		s, ok := summaries[c.Lane]
		if !ok {
			s = &LaneSummary{Lane: c.Lane}
			summaries[c.Lane] = s
		}
		switch c.Status {
		case models.StatusEmpty:
			s.Empty++
		case models.StatusAvailable:
			s.Available++
			d.Occupied++
		case models.StatusReserved:
			s.Reserved++
			d.Occupied++
		case models.StatusBlocked:
			s.Blocked++
		}
	}
	if d.WarehouseCapacity > 0 {
		d.OccupancyPercent = float64(d.Occupied) / float64(d.WarehouseCapacity) * 100
	}

	for _, s := range summaries {
		d.Lanes = append(d.Lanes, *s)
	}
	sort.Slice(d.Lanes, func(a, b int) bool {
		return laneOrder(d.Lanes[a].Lane) < laneOrder(d.Lanes[b].Lane)
	})
	return d
}
