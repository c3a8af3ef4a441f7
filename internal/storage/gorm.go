package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/models"
	"gorm.io/gorm"
)

const cellBatchSize = 500

// GormStore keeps the inventory in three relational tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and returns a store on db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.Cell{}, &models.LaneConfig{}, &models.WarehouseSettings{}); err != nil {
		return nil, fmt.Errorf("failed to migrate inventory tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load reads every row. Empty tables yield an empty inventory.
func (s *GormStore) Load(ctx context.Context) (*inventory.Table, error) {
	db := s.db.WithContext(ctx)
	t := &inventory.Table{Lanes: make(map[string]models.LaneConfig)}

	if err := db.Order("lane, row_no, level_no").Find(&t.Cells).Error; err != nil {
		return nil, fmt.Errorf("failed to load cells: %w", err)
	}

	var lanes []models.LaneConfig
	if err := db.Find(&lanes).Error; err != nil {
		return nil, fmt.Errorf("failed to load lane configs: %w", err)
	}
	for _, cfg := range lanes {
		t.Lanes[cfg.Lane] = cfg
	}

	err := db.First(&t.Settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	t.Settings.ID = 0
	return t, nil
}

// Save replaces all rows inside a single transaction.
func (s *GormStore) Save(ctx context.Context, t *inventory.Table) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Cell{}, &models.LaneConfig{}, &models.WarehouseSettings{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}

		if len(t.Cells) > 0 {
			cells := make([]models.Cell, len(t.Cells))
			copy(cells, t.Cells)
			if err := tx.CreateInBatches(cells, cellBatchSize).Error; err != nil {
				return fmt.Errorf("failed to write cells: %w", err)
			}
		}

		if len(t.Lanes) > 0 {
			lanes := laneSlice(t.Lanes)
			if err := tx.Create(&lanes).Error; err != nil {
				return fmt.Errorf("failed to write lane configs: %w", err)
			}
		}

		settings := t.Settings
		settings.ID = 1
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		return nil
	})
}

// laneSlice flattens the lane map in name order.
func laneSlice(lanes map[string]models.LaneConfig) []models.LaneConfig {
	out := make([]models.LaneConfig, 0, len(lanes))
	for _, cfg := range lanes {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lane < out[j].Lane })
	return out
}
