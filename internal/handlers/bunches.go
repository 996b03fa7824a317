package handlers

import (
	"net/http"
	"strconv"

	"github.com/bloomworks/bloomgo/internal/models"
)

// listBunches returns produced bunches newest-first. Optional ?lineId=
// narrows to one line's output.
func (r *Router) listBunches(w http.ResponseWriter, req *http.Request) {
	query := r.db.WithContext(req.Context()).Order("produced_at DESC")

	if raw := req.URL.Query().Get("lineId"); raw != "" {
		lineID, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid lineId")
			return
		}
		query = query.Where("line_id = ?", lineID)
	}

	var bunches []models.ProducedBunch
	if err := query.Find(&bunches).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list bunches")
		return
	}
	respondJSON(w, http.StatusOK, bunches)
}
