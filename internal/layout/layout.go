// Package layout computes the cell grid of a storage lane.
//
// Every lane is drawn as 14 rows by 3 levels. Which of those cells can hold a
// pallet depends on the lane's maximum stacking height and declared capacity.
// Row 1 sits at the lane mouth and is always one level lower than the rest.
package layout

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xelth-com/eckslots/internal/models"
)

const (
	MinCapacity = 1
	MaxCapacity = 41
	MinHeight   = 1
	MaxHeight   = models.LaneMaxLevels
	ExitRow     = 1
)

var (
	ErrInvalidCapacity = errors.New("capacity must be between 1 and 41")
	ErrInvalidHeight   = errors.New("max height must be 1, 2 or 3")
)

// Position is a (row, level) coordinate inside a lane.
type Position struct {
	Row   int
	Level int
}

// ExitCeiling is the highest usable level on the exit row.
func ExitCeiling(maxHeight int) int {
	return max(1, maxHeight-1)
}

// RowCeiling is the highest usable level on the given row.
func RowCeiling(row, maxHeight int) int {
	if row == ExitRow {
		return ExitCeiling(maxHeight)
	}
	return maxHeight
}

// UsablePositions lists every cell that can hold a pallet, in slot-numbering
// order: rows front to back, highest level first within a row.
func UsablePositions(maxHeight int) []Position {
	positions := make([]Position, 0, models.LaneRows*maxHeight)
	for row := 1; row <= models.LaneRows; row++ {
		ceiling := RowCeiling(row, maxHeight)
		for level := maxHeight; level >= 1; level-- {
			if level <= ceiling {
				positions = append(positions, Position{Row: row, Level: level})
			}
		}
	}
	return positions
}

// UsableCount is the number of pallet positions a lane of this height offers.
func UsableCount(maxHeight int) int {
	return len(UsablePositions(maxHeight))
}

// Validate checks lane parameters before any cell is touched.
func Validate(capacity, maxHeight int) error {
	if maxHeight < MinHeight || maxHeight > MaxHeight {
		return fmt.Errorf("%w: got %d", ErrInvalidHeight, maxHeight)
	}
	if capacity < MinCapacity || capacity > MaxCapacity {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

// EffectiveCapacity clamps a declared capacity to what the height allows.
func EffectiveCapacity(capacity, maxHeight int) int {
	return min(capacity, UsableCount(maxHeight))
}

// BuildLane generates the full 14x3 grid for a lane. The first capacity usable
// positions receive slot ids 01, 02, ... in UsablePositions order; every other
// cell is BLOCKED. Cells come back ordered by row, then level.
func BuildLane(lane string, capacity, maxHeight int) ([]models.Cell, error) {
	if err := Validate(capacity, maxHeight); err != nil {
		return nil, err
	}

	ids := make(map[Position]string, capacity)
	for i, pos := range UsablePositions(maxHeight) {
		if i >= capacity {
			break
		}
		ids[pos] = FormatSlotID(i + 1)
	}

	cells := make([]models.Cell, 0, models.LaneRows*models.LaneMaxLevels)
	for row := 1; row <= models.LaneRows; row++ {
		for level := 1; level <= models.LaneMaxLevels; level++ {
			cell := models.Cell{
				Lane:   lane,
				Row:    row,
				Level:  level,
				SlotID: models.BlockedSlotID,
				Status: models.StatusBlocked,
			}
			if id, ok := ids[Position{Row: row, Level: level}]; ok && level <= RowCeiling(row, maxHeight) {
				cell.SlotID = id
				cell.Status = models.StatusEmpty
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// FormatSlotID renders a slot number as a two digit id.
func FormatSlotID(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ParseSlotID returns the numeric value of a slot id. Blocked sentinels and
// anything non-numeric report ok=false.
func ParseSlotID(id string) (n int, ok bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// IsBlockedID reports whether id is one of the blocked-cell sentinels,
// including the "--" and blank forms written by older data files.
func IsBlockedID(id string) bool {
	switch id {
	case models.BlockedSlotID, "--", "":
		return true
	}
	return false
}
