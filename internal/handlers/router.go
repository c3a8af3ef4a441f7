package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/eckslots/internal/buildinfo"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/layout"
	"github.com/xelth-com/eckslots/internal/middleware"
	"github.com/xelth-com/eckslots/internal/services/printer"
	"github.com/xelth-com/eckslots/internal/websocket"
)

// Router wraps the mux router and the inventory service
type Router struct {
	*mux.Router
	svc      *inventory.Service
	hub      *websocket.Hub
	labels   printer.LabelConfig
	backend  string
	instance string
}

// Options carries the settings the router needs besides the service.
type Options struct {
	Hub     *websocket.Hub
	Labels     printer.LabelConfig
	Backend    string
	InstanceID string
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(svc *inventory.Service, opts Options) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		svc:      svc,
		hub:      opts.Hub,
		labels:   opts.Labels,
		backend:  opts.Backend,
		instance: opts.InstanceID,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")
	api.HandleFunc("/dashboard", r.getDashboard).Methods("GET")
	api.HandleFunc("/settings", r.getSettings).Methods("GET")
	api.HandleFunc("/settings", r.updateSettings).Methods("PUT")
	api.HandleFunc("/sync", r.syncStore).Methods("POST")
	api.HandleFunc("/scan", r.handleScan).Methods("POST")

	// Lane routes
	lanes := api.PathPrefix("/lanes").Subrouter()
	lanes.HandleFunc("", r.listLanes).Methods("GET")
	lanes.HandleFunc("/{lane}", r.getLane).Methods("GET")
	lanes.HandleFunc("/{lane}/layout", r.rebuildLane).Methods("PUT")
	lanes.HandleFunc("/{lane}/intake", r.intake).Methods("POST")
	lanes.HandleFunc("/{lane}/reserve", r.reserve).Methods("POST")
	lanes.HandleFunc("/{lane}/dispatch", r.dispatch).Methods("POST")
	lanes.HandleFunc("/{lane}/report", r.getReport).Methods("GET")
	lanes.HandleFunc("/{lane}/report.pdf", r.getReportPDF).Methods("GET")
	lanes.HandleFunc("/{lane}/labels.pdf", r.getLabelsPDF).Methods("GET")

	if r.hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(r.hub, inventory.ResolveLane, w, req)
		})
	}

	return r
}

// Handler returns the router wrapped in the request middleware chain.
func (r *Router) Handler() http.Handler {
	return middleware.CaseInsensitive(middleware.RequestLogger(r.Router))
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns version, build and backend information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	status := map[string]interface{}{
		"status":     "running",
		"build":      buildinfo.Get(),
		"backend":    r.backend,
		"instanceId": r.instance,
	}
	if r.hub != nil {
		status["wsClients"] = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, status)
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrUnknownLane):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrLaneOccupied),
		errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrNotSaved):
		return http.StatusServiceUnavailable
	case errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrEmptyClient),
		errors.Is(err, inventory.ErrInvalidDispatchMode),
		errors.Is(err, inventory.ErrInvalidSettings),
		errors.Is(err, inventory.ErrInvalidExpiry),
		errors.Is(err, layout.ErrInvalidCapacity),
		errors.Is(err, layout.ErrInvalidHeight),
		errors.Is(err, printer.ErrInvalidSlotCode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError sends err with the status it maps to
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

// decodeBody reads a JSON request body into v
func decodeBody(w http.ResponseWriter, req *http.Request, v interface{}) bool {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
