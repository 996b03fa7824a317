package handlers

import (
	"net/http"

	"github.com/bloomworks/bloomgo/internal/client"
)

// getSnapshot serves the ordered full load clients run at session start.
// Everything after the snapshot arrives over the change feed.
func (r *Router) getSnapshot(w http.ResponseWriter, req *http.Request) {
	snap, err := r.db.Snapshot(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// getStats returns the dashboard counters for integrations that do not
// hold a cache. The numbers are derived exactly the way a client derives
// them, by loading a snapshot into a cache: one definition of "produced"
// (bunches recorded, not line counters) on both sides.
func (r *Router) getStats(w http.ResponseWriter, req *http.Request) {
	snap, err := r.db.Snapshot(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	cache := client.NewCache()
	cache.LoadSnapshot(snap)
	respondJSON(w, http.StatusOK, cache.Stats())
}
