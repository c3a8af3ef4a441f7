package printer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/eckslots/internal/inventory"
)

// LabelConfig holds the sheet geometry for slot labels
type LabelConfig struct {
	Cols           int     `json:"cols"`
	Rows           int     `json:"rows"`
	MarginTop      float64 `json:"marginTop"`
	MarginLeft     float64 `json:"marginLeft"`
	GapX           float64 `json:"gapX"`
	GapY           float64 `json:"gapY"`
	InstanceSuffix string  `json:"instanceSuffix"`
}

// Largest label grid that still leaves room for a readable QR code on A4.
const (
	MaxLabelCols = 10
	MaxLabelRows = 20
)

// DefaultLabelConfig is a 3x7 sheet of A4 labels.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		Cols:           3,
		Rows:           7,
		MarginTop:      10,
		MarginLeft:     7,
		GapX:           2.5,
		GapY:           0,
		InstanceSuffix: "IB",
	}
}

// withDefaults fills zero fields from DefaultLabelConfig and caps the grid
// at MaxLabelCols x MaxLabelRows.
func (c LabelConfig) withDefaults() LabelConfig {
	d := DefaultLabelConfig()
	if c.Cols <= 0 {
		c.Cols = d.Cols
	}
	if c.Rows <= 0 {
		c.Rows = d.Rows
	}
	c.Cols = min(c.Cols, MaxLabelCols)
	c.Rows = min(c.Rows, MaxLabelRows)
	if c.InstanceSuffix == "" {
		c.InstanceSuffix = d.InstanceSuffix
	}
	return c
}

// SlotLabel is one printed slot sticker.
type SlotLabel struct {
	Lane   string
	SlotID string
	Row    int
	Level  int
}

// Code is the slot identifier encoded on the label, e.g. "sA1-07".
func (l SlotLabel) Code() string {
	return fmt.Sprintf("s%s-%s", inventory.LaneCode(l.Lane), l.SlotID)
}

// QRContent follows the ECK1.COM/{ID}{SUFFIX} scan protocol.
func (l SlotLabel) QRContent(suffix string) string {
	return fmt.Sprintf("ECK1.COM/%s%s", l.Code(), suffix)
}

const qrPrefix = "ECK1.COM/"

// ErrInvalidSlotCode is returned for scans that are not slot labels.
var ErrInvalidSlotCode = errors.New("not a slot label")

// ParseSlotCode reads a scanned label, with or without the ECK1.COM/ prefix
// and instance suffix, and returns the lane and slot it names.
func ParseSlotCode(code string) (SlotLabel, error) {
	c := strings.TrimSpace(code)
	if len(c) >= len(qrPrefix) && strings.EqualFold(c[:len(qrPrefix)], qrPrefix) {
		c = c[len(qrPrefix):]
	}
	if len(c) < 6 || (c[0] != 's' && c[0] != 'S') || c[3] != '-' {
		return SlotLabel{}, fmt.Errorf("%w: %q", ErrInvalidSlotCode, code)
	}
	lane, err := inventory.ResolveLane(c[1:3])
	if err != nil {
		return SlotLabel{}, fmt.Errorf("%w: %q", ErrInvalidSlotCode, code)
	}
	slot := c[4:6]
	if slot[0] < '0' || slot[0] > '9' || slot[1] < '0' || slot[1] > '9' {
		return SlotLabel{}, fmt.Errorf("%w: %q", ErrInvalidSlotCode, code)
	}
	return SlotLabel{Lane: lane, SlotID: slot}, nil
}

// SlotLabels returns one label per usable cell, in slot order.
func SlotLabels(views []inventory.CellView) []SlotLabel {
	sorted := append([]inventory.CellView(nil), views...)
	inventory.SortBySlot(sorted)

	var labels []SlotLabel
	for _, v := range sorted {
		if v.Blocked() {
			continue
		}
		labels = append(labels, SlotLabel{Lane: v.Lane, SlotID: v.SlotID, Row: v.Row, Level: v.Level})
	}
	return labels
}

// GenerateLabelsPDF lays out one QR label per slot on A4 pages
func GenerateLabelsPDF(cfg LabelConfig, labels []SlotLabel) ([]byte, error) {
	cfg = cfg.withDefaults()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)
	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows
	if len(labels) == 0 {
		pdf.AddPage()
	}

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols
		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(label.QRContent(cfg.InstanceSuffix), qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to encode QR for %s: %w", label.Code(), err)
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		// QR on the left half, slot number large on the right
		qrSize := labelH * 0.8
		if qrSize > labelW/2 {
			qrSize = labelW / 2
		}
		pdf.ImageOptions(imgName, x+2, y+(labelH-qrSize)/2, qrSize, qrSize, false, imgOptions, 0, "")

		textX := x + qrSize + 4
		textW := labelW - qrSize - 6
		pdf.SetXY(textX, y+labelH/2-9)
		pdf.SetFontSize(22)
		pdf.CellFormat(textW, 10, label.SlotID, "", 0, "C", false, 0, "")

		pdf.SetXY(textX, y+labelH/2+2)
		pdf.SetFontSize(8)
		pdf.CellFormat(textW, 4, inventory.LaneCode(label.Lane), "", 0, "C", false, 0, "")

		pdf.SetXY(textX, y+labelH/2+6)
		pdf.SetFontSize(6)
		pdf.CellFormat(textW, 3, fmt.Sprintf("R%02d L%d", label.Row, label.Level), "", 0, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
