package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/xelth-com/eckslots/internal/inventory"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet titles used by SheetStore.
const (
	InventorySheet = "Inventory"
	LanesSheet     = "Lanes"
	SettingsSheet  = "Settings"
)

// Worksheet titles of spreadsheets kept by the earlier tool, read when the
// current ones are empty.
var legacySheets = map[string]string{
	InventorySheet: "Estoque",
	LanesSheet:     "Config_Ruas",
	SettingsSheet:  "Config_Global",
}

// SheetsAPI is the subset of the Sheets values API the store needs.
type SheetsAPI interface {
	// Get returns the rows of a range. A worksheet that does not exist yields no rows.
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	// Update writes each range in one request.
	Update(ctx context.Context, spreadsheetID string, data map[string][][]interface{}) error
	// Clear empties each range in one request.
	Clear(ctx context.Context, spreadsheetID string, ranges []string) error
	// EnsureSheets creates any missing worksheets.
	EnsureSheets(ctx context.Context, spreadsheetID string, titles []string) error
}

// sheetsClient implements SheetsAPI with the Google Sheets v4 service.
type sheetsClient struct {
	svc *sheets.Service
}

// NewSheetsAPI connects to Google Sheets. Without a credentials file the
// application default credentials are used.
func NewSheetsAPI(ctx context.Context, credentialsFile string) (SheetsAPI, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &sheetsClient{svc: svc}, nil
}

func (c *sheetsClient) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		// "Unable to parse range" is how the API reports a missing worksheet.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
			return nil, nil
		}
		return nil, err
	}
	return resp.Values, nil
}

func (c *sheetsClient) Update(ctx context.Context, spreadsheetID string, data map[string][][]interface{}) error {
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW"}
	for rng, values := range data {
		req.Data = append(req.Data, &sheets.ValueRange{Range: rng, Values: values})
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *sheetsClient) Clear(ctx context.Context, spreadsheetID string, ranges []string) error {
	req := &sheets.BatchClearValuesRequest{Ranges: ranges}
	_, err := c.svc.Spreadsheets.Values.BatchClear(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (c *sheetsClient) EnsureSheets(ctx context.Context, spreadsheetID string, titles []string) error {
	doc, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return err
	}
	existing := make(map[string]bool)
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var reqs []*sheets.Request
	for _, title := range titles {
		if !existing[title] {
			reqs = append(reqs, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
			})
		}
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
	if err == nil {
		log.Printf("📄 Created worksheets in %s: %d", spreadsheetID, len(reqs))
	}
	return err
}

// SheetStore keeps the inventory in a Google spreadsheet, one worksheet per table.
type SheetStore struct {
	api           SheetsAPI
	spreadsheetID string
	prepared      bool
}

// NewSheetStore returns a store on the given spreadsheet.
func NewSheetStore(api SheetsAPI, spreadsheetID string) *SheetStore {
	return &SheetStore{api: api, spreadsheetID: spreadsheetID}
}

// Load reads all three worksheets. Missing worksheets and columns load as defaults.
func (s *SheetStore) Load(ctx context.Context) (*inventory.Table, error) {
	cellRows, err := s.read(ctx, InventorySheet)
	if err != nil {
		return nil, err
	}
	laneRows, err := s.read(ctx, LanesSheet)
	if err != nil {
		return nil, err
	}
	settingRows, err := s.read(ctx, SettingsSheet)
	if err != nil {
		return nil, err
	}

	return &inventory.Table{
		Cells:    rowsToCells(cellRows),
		Lanes:    rowsToLanes(laneRows),
		Settings: rowsToSettings(settingRows),
	}, nil
}

// read returns the rows of a worksheet, falling back to its legacy title.
func (s *SheetStore) read(ctx context.Context, title string) ([][]interface{}, error) {
	rows, err := s.api.Get(ctx, s.spreadsheetID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", title, err)
	}
	if len(rows) > 0 {
		return rows, nil
	}
	legacy, ok := legacySheets[title]
	if !ok {
		return nil, nil
	}
	rows, err = s.api.Get(ctx, s.spreadsheetID, legacy)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", legacy, err)
	}
	if len(rows) > 0 {
		log.Printf("📄 Importing legacy worksheet %s as %s", legacy, title)
	}
	return rows, nil
}

// Save overwrites all three worksheets in one batch, then clears any rows
// left below the new data.
func (s *SheetStore) Save(ctx context.Context, t *inventory.Table) error {
	if !s.prepared {
		titles := []string{InventorySheet, LanesSheet, SettingsSheet}
		if err := s.api.EnsureSheets(ctx, s.spreadsheetID, titles); err != nil {
			return fmt.Errorf("failed to prepare worksheets: %w", err)
		}
		s.prepared = true
	}

	cellRows := cellsToRows(t.Cells)
	laneRows := lanesToRows(t.Lanes)
	settingRows := settingsToRows(t.Settings)

	err := s.api.Update(ctx, s.spreadsheetID, map[string][][]interface{}{
		InventorySheet + "!A1": cellRows,
		LanesSheet + "!A1":     laneRows,
		SettingsSheet + "!A1":  settingRows,
	})
	if err != nil {
		return fmt.Errorf("failed to write worksheets: %w", err)
	}

	err = s.api.Clear(ctx, s.spreadsheetID, []string{
		trailingRange(InventorySheet, len(cellRows)),
		trailingRange(LanesSheet, len(laneRows)),
		trailingRange(SettingsSheet, len(settingRows)),
	})
	if err != nil {
		return fmt.Errorf("failed to clear stale rows: %w", err)
	}
	return nil
}

// trailingRange covers every row after the first n of a worksheet.
func trailingRange(sheet string, n int) string {
	return fmt.Sprintf("%s!A%d:Z", sheet, n+1)
}
