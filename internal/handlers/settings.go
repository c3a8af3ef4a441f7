package handlers

import (
	"log"
	"net/http"
)

type settingsRequest struct {
	WarehouseCapacity int `json:"warehouse_capacity"`
	DefaultCapacity   int `json:"default_capacity"`
}

// getSettings returns the warehouse settings
func (r *Router) getSettings(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Settings())
}

// updateSettings changes building and default lane capacity
func (r *Router) updateSettings(w http.ResponseWriter, req *http.Request) {
	var body settingsRequest
	if !decodeBody(w, req, &body) {
		return
	}
	if err := r.svc.UpdateSettings(req.Context(), body.WarehouseCapacity, body.DefaultCapacity); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, r.svc.Settings())
}

// syncStore writes the in-memory inventory to the backend again
func (r *Router) syncStore(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.Sync(req.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	log.Printf("🔄 Manual sync to %s backend completed", r.backend)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "synced",
		"backend": r.backend,
	})
}
