package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/middleware"
	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/gorilla/mux"
)

// listLines returns the fixed set of production lines, ascending by id.
func (r *Router) listLines(w http.ResponseWriter, req *http.Request) {
	var lines []models.ProductionLine
	if err := r.db.WithContext(req.Context()).Order("id ASC").Find(&lines).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list lines")
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// getLine returns one line with its current assignments.
func (r *Router) getLine(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	line, err := r.db.LineByID(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Line not found")
		return
	}

	var assignments []models.LineAssignment
	if err := r.db.WithContext(req.Context()).Where("line_id = ?", id).Find(&assignments).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load assignments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"line":        line,
		"assignments": assignments,
	})
}

// SetRecipeRequest names the recipe a line should produce.
type SetRecipeRequest struct {
	RecipeName string `json:"recipeName"`
}

// setLineRecipe points a line at a recipe and publishes the update.
func (r *Router) setLineRecipe(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	var body SetRecipeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(body.RecipeName) == "" {
		respondError(w, http.StatusBadRequest, "recipeName is required")
		return
	}

	line, err := r.db.SetLineRecipe(req.Context(), id, strings.TrimSpace(body.RecipeName), middleware.UserEmail(req))
	if err != nil {
		respondError(w, http.StatusNotFound, "Line not found")
		return
	}

	r.hub.Publish(feed.Update(feed.CollectionLines, line))
	respondJSON(w, http.StatusOK, line)
}
