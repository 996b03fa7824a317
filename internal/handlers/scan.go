package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/middleware"
)

// ScanRequest represents the payload from a scanner. Mode selects which
// transition the scanned code triggers; line and output modes also need the
// target line.
type ScanRequest struct {
	Mode    string `json:"mode"` // inventory, checkout, line, output
	Barcode string `json:"barcode"`
	LineID  int    `json:"lineId,omitempty"`
}

// ScanResponse standardizes the scan result
type ScanResponse struct {
	Type    string      `json:"type"`           // box, bunch
	Message string      `json:"message"`        // Human readable status
	Action  string      `json:"action"`         // created, moved, assigned, completed
	Data    interface{} `json:"data,omitempty"` // The resulting object
}

// handleScan is the universal entry point for all barcode scans.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	barcode := strings.TrimSpace(body.Barcode)
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "Empty barcode")
		return
	}

	ctx := req.Context()
	actor := middleware.UserEmail(req)

	var resp ScanResponse
	var err error

	switch body.Mode {
	case "inventory":
		var box interface{}
		box, err = r.eng.AddToInventory(ctx, barcode, actor)
		resp = ScanResponse{Type: "box", Action: "created", Message: "Box added to inventory", Data: box}
	case "checkout":
		var box interface{}
		box, err = r.eng.CheckoutBox(ctx, barcode, actor)
		resp = ScanResponse{Type: "box", Action: "moved", Message: "Box checked out", Data: box}
	case "line":
		if body.LineID < 1 {
			respondError(w, http.StatusBadRequest, "lineId is required for line mode")
			return
		}
		var box interface{}
		box, err = r.eng.AssignToLine(ctx, barcode, body.LineID, actor)
		resp = ScanResponse{Type: "box", Action: "assigned",
			Message: fmt.Sprintf("Box assigned to Line %d", body.LineID), Data: box}
	case "output":
		if body.LineID < 1 {
			respondError(w, http.StatusBadRequest, "lineId is required for output mode")
			return
		}
		var bunch interface{}
		bunch, err = r.eng.CompleteBunch(ctx, barcode, body.LineID, actor)
		resp = ScanResponse{Type: "bunch", Action: "completed",
			Message: fmt.Sprintf("Bunch completed on Line %d", body.LineID), Data: bunch}
	default:
		respondError(w, http.StatusBadRequest, "Unknown scan mode: "+body.Mode)
		return
	}

	if err != nil {
		respondError(w, statusForEngineError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// statusForEngineError maps the engine's error taxonomy onto HTTP statuses.
func statusForEngineError(err error) int {
	var malformed *engine.MalformedInputError
	var invalid *engine.ValidationError
	var missing *engine.NotFoundError
	switch {
	case errors.As(err, &malformed), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &missing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
