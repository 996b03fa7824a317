package handlers

import (
	"net/http"
	"strings"

	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// listInventory returns boxes newest-first. Optional filters: ?location=
// narrows to one location, ?q= matches flower type or color.
func (r *Router) listInventory(w http.ResponseWriter, req *http.Request) {
	query := r.db.WithContext(req.Context()).Order("created_at DESC")

	if loc := req.URL.Query().Get("location"); loc != "" {
		query = query.Where("location = ?", loc)
	}
	if q := strings.TrimSpace(req.URL.Query().Get("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(flower_type) LIKE ? OR LOWER(color) LIKE ?", pattern, pattern)
	}

	var boxes []models.Box
	if err := query.Find(&boxes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list inventory")
		return
	}
	respondJSON(w, http.StatusOK, boxes)
}

// getBox returns a single box by its scanned id.
func (r *Router) getBox(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var box models.Box
	if err := r.db.WithContext(req.Context()).First(&box, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(w, http.StatusNotFound, "Box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load box")
		return
	}
	respondJSON(w, http.StatusOK, box)
}
