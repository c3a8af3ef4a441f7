// Package storage provides the inventory.Store backends: PostgreSQL through
// gorm, a JSON file and a Google spreadsheet.
package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/xelth-com/eckslots/internal/config"
	"github.com/xelth-com/eckslots/internal/database"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/models"
)

// Backend is an opened store together with whatever must be released on shutdown.
type Backend struct {
	inventory.Store
	Name  string
	close func() error
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := NewGormStore(db.DB)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{Store: store, Name: cfg.Backend, close: db.Close}, nil

	case config.BackendFile:
		log.Printf("📁 Mode: [File] - Inventory at %s", cfg.File.Path)
		return &Backend{Store: NewFileStore(cfg.File.Path), Name: cfg.Backend}, nil

	case config.BackendSheets:
		log.Printf("📄 Mode: [Google Sheets] - Spreadsheet %s", cfg.Sheets.SpreadsheetID)
		api, err := NewSheetsAPI(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewSheetStore(api, cfg.Sheets.SpreadsheetID), Name: cfg.Backend}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// OpenService opens the configured backend and loads the inventory service
// on it. The caller closes the returned backend.
func OpenService(ctx context.Context, cfg *config.Config, opts ...inventory.Option) (*inventory.Service, *Backend, error) {
	backend, err := Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	base := []inventory.Option{
		inventory.WithExpiryAlertDays(cfg.Inventory.ExpiryAlertDays),
		inventory.WithInstanceID(cfg.InstanceID),
		inventory.WithDefaultSettings(models.WarehouseSettings{
			WarehouseCapacity: cfg.Inventory.WarehouseCapacity,
			DefaultCapacity:   cfg.Inventory.DefaultLaneCapacity,
		}),
	}
	svc, err := inventory.NewService(ctx, backend, append(base, opts...)...)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return svc, backend, nil
}
