package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xelth-com/eckslots/internal/inventory"
)

type reportColumn struct {
	title string
	width float64
	value func(r inventory.ReportRow) string
}

var reportColumns = []reportColumn{
	{"Slot", 12, func(r inventory.ReportRow) string { return r.SlotID }},
	{"Row", 10, func(r inventory.ReportRow) string { return fmt.Sprint(r.Row) }},
	{"Level", 11, func(r inventory.ReportRow) string { return fmt.Sprint(r.Level) }},
	{"Lot", 32, func(r inventory.ReportRow) string { return r.Lot }},
	{"Expiry", 20, func(r inventory.ReportRow) string {
		if r.Expiry == nil {
			return ""
		}
		return r.Expiry.Format("02/01/2006")
	}},
	{"Status", 22, func(r inventory.ReportRow) string { return string(r.Status) }},
	{"Client", 33, func(r inventory.ReportRow) string { return r.Client }},
	{"Intake", 28, func(r inventory.ReportRow) string { return r.IntakeTimestamp }},
	{"FEFO", 22, reportFlags},
}

// reportFlags marks pallets inside the alert window and the first pallet of a new lot.
func reportFlags(r inventory.ReportRow) string {
	boundary := r.Visual == inventory.VisualLotBoundary
	switch {
	case r.ExpiryAlert && boundary:
		return "EXP / LOT"
	case r.ExpiryAlert:
		return "EXPIRING"
	case boundary:
		return "LOT CHANGE"
	}
	return ""
}

// GenerateReportPDF renders the FEFO compliance listing of one lane.
// Rows inside the expiry alert window are shaded.
func GenerateReportPDF(lane string, generatedAt time.Time, alertDays int, rows []inventory.ReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "FEFO compliance report: "+lane, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	alerts := 0
	for _, r := range rows {
		if r.ExpiryAlert {
			alerts++
		}
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s  |  %d pallets  |  %d expiring within %d days",
		generatedAt.Format("02/01/2006 15:04"), len(rows), alerts, alertDays), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		for _, col := range reportColumns {
			pdf.CellFormat(col.width, 6, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, r := range rows {
		if pdf.GetY()+5 > pageH-bottom {
			pdf.AddPage()
			header()
		}
		fill := r.ExpiryAlert
		if fill {
			pdf.SetFillColor(255, 205, 210)
		}
		for _, col := range reportColumns {
			pdf.CellFormat(col.width, 5, tr(col.value(r)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.CellFormat(0, 6, "No pallets stored in this lane.", "", 1, "L", false, 0, "")
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
