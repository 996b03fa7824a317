package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bloomworks/bloomgo/internal/labels"
	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// getBoxLabel renders a QR code PNG for one box id, suitable for reprinting
// a damaged label. ?size= overrides the pixel size.
func (r *Router) getBoxLabel(w http.ResponseWriter, req *http.Request) {
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

	size := 256
	if raw := req.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 2048 {
			size = parsed
		}
	}

	png, err := labels.TokenPNG(box.ID, size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render label")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, box.ID))
	w.Write(png)
}

// LabelSheetRequest lists the tokens to print, with an optional layout
// override.
type LabelSheetRequest struct {
	Tokens []string            `json:"tokens"`
	Layout *labels.SheetConfig `json:"layout,omitempty"`
}

// getLabelSheet renders a printable PDF grid of QR labels.
func (r *Router) getLabelSheet(w http.ResponseWriter, req *http.Request) {
	var body LabelSheetRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(body.Tokens) == 0 {
		respondError(w, http.StatusBadRequest, "tokens is required")
		return
	}

	layout := labels.DefaultSheet
	if body.Layout != nil {
		layout = *body.Layout
	}

	pdf, err := labels.SheetPDF(layout, body.Tokens)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to render sheet: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="labels.pdf"`)
	w.Write(pdf)
}
