package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/middleware"
	"github.com/bloomworks/bloomgo/internal/models"
)

// listRecipes returns recipes newest-first.
func (r *Router) listRecipes(w http.ResponseWriter, req *http.Request) {
	var recipes []models.Recipe
	if err := r.db.WithContext(req.Context()).Order("created_at DESC").Find(&recipes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list recipes")
		return
	}
	respondJSON(w, http.StatusOK, recipes)
}

// CreateRecipeRequest is the raw recipe form. Quantities arrive as text and
// the engine drops rows that do not parse.
type CreateRecipeRequest struct {
	Name    string               `json:"name"`
	Flowers []engine.FlowerInput `json:"flowers"`
}

// createRecipe validates and persists a named composition.
func (r *Router) createRecipe(w http.ResponseWriter, req *http.Request) {
	var body CreateRecipeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	recipe, err := r.eng.CreateRecipe(req.Context(), body.Name, body.Flowers, middleware.UserEmail(req))
	if err != nil {
		respondError(w, statusForEngineError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, recipe)
}

// suggestRecipe asks the configured model for a composition buildable from
// the boxes currently in stock.
func (r *Router) suggestRecipe(w http.ResponseWriter, req *http.Request) {
	if r.suggester == nil {
		respondError(w, http.StatusServiceUnavailable, "Recipe suggestions are not configured")
		return
	}

	var inStock []models.Box
	if err := r.db.WithContext(req.Context()).Where("location = ?", models.LocationInventory).Find(&inStock).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load inventory")
		return
	}
	if len(inStock) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "Nothing in stock to build a recipe from")
		return
	}

	suggestion, err := r.suggester.SuggestRecipe(req.Context(), inStock)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Suggestion failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, suggestion)
}
