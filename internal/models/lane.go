package models

import "time"

// CellStatus is the occupancy state of one pallet position.
type CellStatus string

const (
	StatusEmpty     CellStatus = "EMPTY"
	StatusAvailable CellStatus = "AVAILABLE"
	StatusReserved  CellStatus = "RESERVED"
	StatusBlocked   CellStatus = "BLOCKED"
)

// BlockedSlotID marks a cell that cannot hold a pallet.
const BlockedSlotID = "none"

// Lane geometry shared by every street in the building.
const (
	LaneRows      = 14
	LaneMaxLevels = 3
)

// Defaults backfilled into lane configurations that predate capacity/height columns.
const (
	DefaultLaneCapacity      = 41
	DefaultLaneHeight        = 3
	DefaultWarehouseCapacity = 2000
)

// Cell is one (row, level) position of a lane.
// Lane, Row and Level form the natural key; a lane rebuild replaces all of its cells.
type Cell struct {
	Lane            string     `gorm:"primaryKey;type:varchar(32)" json:"lane"`
	Row             int        `gorm:"primaryKey;autoIncrement:false;column:row_no" json:"row"`
	Level           int        `gorm:"primaryKey;autoIncrement:false;column:level_no" json:"level"`
	SlotID          string     `gorm:"type:varchar(8);not null" json:"slot_id"`
	Status          CellStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Lot             string     `gorm:"type:varchar(100)" json:"lot"`
	Expiry          *time.Time `gorm:"type:date" json:"expiry,omitempty"`
	Client          string     `gorm:"type:varchar(100)" json:"client"`
	IntakeTimestamp string     `gorm:"type:varchar(32)" json:"intake_timestamp,omitempty"`
}

func (Cell) TableName() string { return "lane_cells" }

// Occupied reports whether a pallet sits in the cell.
func (c Cell) Occupied() bool {
	return c.Status == StatusAvailable || c.Status == StatusReserved
}

// Blocked reports whether the cell is structurally unusable.
func (c Cell) Blocked() bool {
	return c.Status == StatusBlocked
}

// Clear returns the cell to EMPTY, dropping lot, expiry, client and intake time.
func (c *Cell) Clear() {
	c.Status = StatusEmpty
	c.Lot = ""
	c.Expiry = nil
	c.Client = ""
	c.IntakeTimestamp = ""
}

// LaneConfig stores the declared geometry of a lane.
type LaneConfig struct {
	Lane      string    `gorm:"primaryKey;type:varchar(32)" json:"lane"`
	Capacity  int       `gorm:"not null;default:41" json:"capacity"`
	MaxHeight int       `gorm:"not null;default:3" json:"max_height"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LaneConfig) TableName() string { return "lane_configs" }

// WarehouseSettings holds building-wide values. Only one row is ever stored.
type WarehouseSettings struct {
	ID                uint `gorm:"primaryKey" json:"-"`
	WarehouseCapacity int  `gorm:"not null;default:2000" json:"warehouse_capacity"`
	DefaultCapacity   int  `gorm:"not null;default:41" json:"default_capacity"`
}

func (WarehouseSettings) TableName() string { return "warehouse_settings" }
