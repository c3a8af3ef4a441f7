package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/services/printer"
)

// getLabelsPDF prints a QR label for every usable slot of a lane
func (r *Router) getLabelsPDF(w http.ResponseWriter, req *http.Request) {
	m, err := r.svc.LaneMap(req.Context(), laneParam(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	cfg := r.labels
	q := req.URL.Query()
	if cols, err := strconv.Atoi(q.Get("cols")); err == nil && cols > 0 {
		cfg.Cols = min(cols, printer.MaxLabelCols)
	}
	if rows, err := strconv.Atoi(q.Get("rows")); err == nil && rows > 0 {
		cfg.Rows = min(rows, printer.MaxLabelRows)
	}

	pdfBytes, err := printer.GenerateLabelsPDF(cfg, printer.SlotLabels(m.Cells))
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}
	writePDF(w, fmt.Sprintf("labels_%s.pdf", inventory.LaneCode(m.Lane)), pdfBytes)
}

// getReportPDF renders the FEFO compliance report of a lane
func (r *Router) getReportPDF(w http.ResponseWriter, req *http.Request) {
	lane, err := inventory.ResolveLane(laneParam(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	rows, err := r.svc.Report(req.Context(), lane)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	pdfBytes, err := printer.GenerateReportPDF(lane, r.svc.Now(), r.svc.AlertDays(), rows)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}
	writePDF(w, fmt.Sprintf("fefo_%s.pdf", inventory.LaneCode(lane)), pdfBytes)
}

func writePDF(w http.ResponseWriter, filename string, pdfBytes []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
