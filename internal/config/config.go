package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendSheets   = "sheets"
)

// Config holds all application configuration
type Config struct {
	NodeEnv    string
	Port       string
	InstanceID string
	Backend    string
	Database   DatabaseConfig
	File       FileConfig
	Sheets     SheetsConfig
	Inventory  InventoryConfig
	Labels     LabelConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	Quiet        bool
	EmbeddedData string
	EmbeddedPort int
}

// FileConfig points at the JSON snapshot used by the file backend.
type FileConfig struct {
	Path string
}

// SheetsConfig identifies the spreadsheet used by the sheets backend.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
}

// InventoryConfig holds defaults applied when the backend has none.
type InventoryConfig struct {
	DefaultLaneCapacity int
	WarehouseCapacity   int
	ExpiryAlertDays     int
}

// LabelConfig controls printed slot labels.
type LabelConfig struct {
	InstanceSuffix string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		NodeEnv:    getEnv("NODE_ENV", "development"),
		Port:       getEnv("PORT", "3210"),
		InstanceID: getEnv("INSTANCE_ID", uuid.New().String()),
		Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendPostgres)),
		Database: DatabaseConfig{
			Host:         getEnv("PG_HOST", "localhost"),
			Port:         getEnv("PG_PORT", "5432"),
			Username:     getEnv("PG_USERNAME", "postgres"),
			Password:     os.Getenv("PG_PASSWORD"),
			Database:     getEnv("PG_DATABASE", "eckslots"),
			Quiet:        getEnv("DB_QUIET", "false") == "true",
			EmbeddedData: getEnv("EMBEDDED_PG_DATA", "./db_data"),
		},
		File: FileConfig{
			Path: getEnv("DATA_FILE", "./data/inventory.json"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
			CredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
		},
		Labels: LabelConfig{
			InstanceSuffix: getEnv("INSTANCE_SUFFIX", "IB"),
		},
	}

	var err error
	if cfg.Database.EmbeddedPort, err = getEnvInt("EMBEDDED_PG_PORT", 5433); err != nil {
		return nil, err
	}
	if cfg.Inventory.DefaultLaneCapacity, err = getEnvInt("DEFAULT_LANE_CAPACITY", 41); err != nil {
		return nil, err
	}
	if cfg.Inventory.WarehouseCapacity, err = getEnvInt("WAREHOUSE_CAPACITY", 2000); err != nil {
		return nil, err
	}
	if cfg.Inventory.ExpiryAlertDays, err = getEnvInt("EXPIRY_ALERT_DAYS", 180); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres, BackendFile:
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the sheets backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend)
	}
	if c.Inventory.DefaultLaneCapacity < 1 || c.Inventory.DefaultLaneCapacity > 41 {
		return fmt.Errorf("DEFAULT_LANE_CAPACITY must be between 1 and 41, got %d", c.Inventory.DefaultLaneCapacity)
	}
	if c.Inventory.WarehouseCapacity < 1 {
		return fmt.Errorf("WAREHOUSE_CAPACITY must be positive, got %d", c.Inventory.WarehouseCapacity)
	}
	if c.Inventory.ExpiryAlertDays < 0 {
		return fmt.Errorf("EXPIRY_ALERT_DAYS must not be negative, got %d", c.Inventory.ExpiryAlertDays)
	}
	return nil
}

// IsEmbeddedDatabase reports whether Postgres should run in-process:
// localhost with no password configured.
func (d DatabaseConfig) IsEmbeddedDatabase() bool {
	return d.Host == "localhost" && d.Password == ""
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
