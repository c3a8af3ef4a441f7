package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/services/printer"
)

// ScanRequest represents the payload from a scanner
type ScanRequest struct {
	Barcode string `json:"barcode"`
}

// ScanResponse is the slot a scanned label points at
type ScanResponse struct {
	Lane string             `json:"lane"`
	Cell inventory.CellView `json:"cell"`
}

// handleScan resolves a scanned slot label to the cell's current contents
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if !decodeBody(w, req, &body) {
		return
	}
	barcode := strings.TrimSpace(body.Barcode)
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "Empty barcode")
		return
	}

	label, err := printer.ParseSlotCode(barcode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	m, err := r.svc.LaneMap(req.Context(), label.Lane)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	for _, v := range m.Cells {
		if v.SlotID == label.SlotID {
			respondJSON(w, http.StatusOK, ScanResponse{Lane: m.Lane, Cell: v})
			return
		}
	}
	respondError(w, http.StatusNotFound, fmt.Sprintf("Slot %s is not in use in %s", label.SlotID, m.Lane))
}
