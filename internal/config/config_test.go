package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "PG_HOST", "PG_PASSWORD", "DATA_FILE",
		"DEFAULT_LANE_CAPACITY", "WAREHOUSE_CAPACITY", "EXPIRY_ALERT_DAYS", "INSTANCE_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3210" || cfg.Backend != BackendPostgres {
		t.Errorf("port/backend = %s/%s", cfg.Port, cfg.Backend)
	}
	if cfg.Inventory.DefaultLaneCapacity != 41 || cfg.Inventory.WarehouseCapacity != 2000 || cfg.Inventory.ExpiryAlertDays != 180 {
		t.Errorf("inventory = %+v", cfg.Inventory)
	}
	if !cfg.Database.IsEmbeddedDatabase() {
		t.Error("localhost without password should use the embedded database")
	}
	if cfg.InstanceID == "" {
		t.Error("instance id should be generated")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "FILE")
	t.Setenv("DATA_FILE", "/tmp/slots.json")
	t.Setenv("WAREHOUSE_CAPACITY", "900")
	t.Setenv("PG_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.File.Path != "/tmp/slots.json" {
		t.Errorf("backend = %s path = %s", cfg.Backend, cfg.File.Path)
	}
	if cfg.Inventory.WarehouseCapacity != 900 {
		t.Errorf("warehouse capacity = %d", cfg.Inventory.WarehouseCapacity)
	}
	if cfg.Database.IsEmbeddedDatabase() {
		t.Error("password set: external database expected")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"STORAGE_BACKEND", "mongo", "unknown STORAGE_BACKEND"},
		{"DEFAULT_LANE_CAPACITY", "50", "DEFAULT_LANE_CAPACITY"},
		{"WAREHOUSE_CAPACITY", "many", "must be an integer"},
		{"STORAGE_BACKEND", "sheets", "SHEETS_SPREADSHEET_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("SHEETS_SPREADSHEET_ID", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
