package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/eckslots/internal/inventory"
)

// GridCell is one drawn cell of the lane map.
type GridCell struct {
	Row         int                    `json:"row"`
	Level       int                    `json:"level"`
	SlotID      string                 `json:"slot_id"`
	Label       string                 `json:"label"`
	Visual      inventory.VisualStatus `json:"visual_status"`
	ExpiryAlert bool                   `json:"expiry_alert"`
}

// LaneResponse is a lane with its cells and the map layout
type LaneResponse struct {
	inventory.LaneMap
	// Grid[0] is the top level; within a level the back row comes first.
	Grid [][]GridCell `json:"grid"`
}

type layoutRequest struct {
	Capacity  int  `json:"capacity"`
	MaxHeight int  `json:"max_height"`
	Force     bool `json:"force"`
}

type intakeRequest struct {
	Lot      string `json:"lot"`
	Expiry   string `json:"expiry"`
	Quantity int    `json:"quantity"`
}

type reserveRequest struct {
	Client   string `json:"client"`
	Quantity int    `json:"quantity"`
}

type dispatchRequest struct {
	Quantity int    `json:"quantity"`
	Mode     string `json:"mode"`
}

func laneParam(req *http.Request) string {
	return mux.Vars(req)["lane"]
}

// listLanes returns all 52 streets
func (r *Router) listLanes(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Lanes())
}

// getLane returns a lane's configuration, annotated cells and map grid
func (r *Router) getLane(w http.ResponseWriter, req *http.Request) {
	m, err := r.svc.LaneMap(req.Context(), laneParam(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	grid := inventory.Grid(m.Cells)
	resp := LaneResponse{LaneMap: m, Grid: make([][]GridCell, len(grid))}
	for i, level := range grid {
		resp.Grid[i] = make([]GridCell, len(level))
		for j, v := range level {
			resp.Grid[i][j] = GridCell{
				Row:         v.Row,
				Level:       v.Level,
				SlotID:      v.SlotID,
				Label:       v.Label(),
				Visual:      v.Visual,
				ExpiryAlert: v.ExpiryAlert,
			}
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// rebuildLane regenerates a lane's geometry
func (r *Router) rebuildLane(w http.ResponseWriter, req *http.Request) {
	var body layoutRequest
	if !decodeBody(w, req, &body) {
		return
	}
	if err := r.svc.RebuildLane(req.Context(), laneParam(req), body.Capacity, body.MaxHeight, body.Force); err != nil {
		respondServiceError(w, err)
		return
	}
	r.getLane(w, req)
}

// intake stores pallets of one lot
func (r *Router) intake(w http.ResponseWriter, req *http.Request) {
	var body intakeRequest
	if !decodeBody(w, req, &body) {
		return
	}
	expiry, err := inventory.ParseExpiry(body.Expiry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	placed, err := r.svc.Intake(req.Context(), laneParam(req), body.Lot, expiry, body.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"requested": body.Quantity,
		"placed":    placed,
	})
}

// reserve assigns available pallets to a client
func (r *Router) reserve(w http.ResponseWriter, req *http.Request) {
	var body reserveRequest
	if !decodeBody(w, req, &body) {
		return
	}
	reserved, err := r.svc.Reserve(req.Context(), laneParam(req), body.Client, body.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"requested": body.Quantity,
		"reserved":  reserved,
	})
}

// dispatch removes pallets, all or nothing
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	var body dispatchRequest
	if !decodeBody(w, req, &body) {
		return
	}
	mode, err := inventory.ParseDispatchMode(body.Mode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	removed, err := r.svc.Dispatch(req.Context(), laneParam(req), body.Quantity, mode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"mode":    mode,
		"removed": removed,
	})
}

// getReport returns the FEFO compliance rows of a lane
func (r *Router) getReport(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Report(req.Context(), laneParam(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []inventory.ReportRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// getDashboard returns building-wide occupancy
func (r *Router) getDashboard(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Dashboard())
}
