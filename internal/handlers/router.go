package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bloomworks/bloomgo/internal/ai"
	"github.com/bloomworks/bloomgo/internal/config"
	"github.com/bloomworks/bloomgo/internal/database"
	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/middleware"
	"github.com/bloomworks/bloomgo/internal/utils"
	"github.com/bloomworks/bloomgo/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the application's moving parts.
type Router struct {
	*mux.Router
	db        *database.DB
	eng       *engine.Engine
	hub       *websocket.Hub
	cfg       *config.Config
	suggester *ai.Suggester
}

// NewRouter creates a new HTTP router with all routes. suggester may be nil
// when no Gemini key is configured; the suggest endpoint then responds 503.
func NewRouter(db *database.DB, eng *engine.Engine, hub *websocket.Hub, cfg *config.Config, suggester *ai.Suggester) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		eng:       eng,
		hub:       hub,
		cfg:       cfg,
		suggester: suggester,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/verify", r.verifyEmail).Methods("GET")

	// Change feed. Browsers cannot set headers on websocket requests, so
	// the JWT may also arrive as ?token=; serveFeed validates it before
	// the upgrade.
	r.HandleFunc("/ws", r.serveFeed).Methods("GET")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/scan", r.handleScan).Methods("POST")
	api.HandleFunc("/snapshot", r.getSnapshot).Methods("GET")
	api.HandleFunc("/stats", r.getStats).Methods("GET")

	api.HandleFunc("/inventory", r.listInventory).Methods("GET")
	api.HandleFunc("/inventory/{id}", r.getBox).Methods("GET")
	api.HandleFunc("/inventory/{id}/label", r.getBoxLabel).Methods("GET")

	api.HandleFunc("/lines", r.listLines).Methods("GET")
	api.HandleFunc("/lines/{id}", r.getLine).Methods("GET")
	api.HandleFunc("/lines/{id}/recipe", r.setLineRecipe).Methods("POST")

	api.HandleFunc("/recipes", r.listRecipes).Methods("GET")
	api.HandleFunc("/recipes", r.createRecipe).Methods("POST")
	api.HandleFunc("/recipes/suggest", r.suggestRecipe).Methods("POST")

	api.HandleFunc("/bunches", r.listBunches).Methods("GET")

	api.HandleFunc("/labels/sheet", r.getLabelSheet).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"feedClients": r.hub.ClientCount(),
	})
}

// serveFeed validates the caller's JWT and then upgrades the connection
// and attaches it to the change feed. The token comes from ?token= or a
// Bearer header; without a valid one no upgrade happens.
func (r *Router) serveFeed(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		parts := strings.Split(req.Header.Get("Authorization"), " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	if _, err := utils.ValidateToken(token, r.cfg.JWTSecret); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	websocket.ServeWs(r.hub, w, req)
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
