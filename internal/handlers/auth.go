package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/bloomworks/bloomgo/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialsRequest carries the email and password for sign-up and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles user sign-up. The account is created unverified; sign-in
// stays blocked until the verification link is followed.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	if !utils.IsValidEmail(email) {
		respondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(body.Password) < utils.MinPasswordLength {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Password must be at least %d characters", utils.MinPasswordLength))
		return
	}

	var existing models.UserAuth
	err := r.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, "User already registered")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "Failed to check existing user")
		return
	}

	hashedPassword, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.UserAuth{
		Email:       email,
		Password:    hashedPassword,
		IsVerified:  false,
		VerifyToken: uuid.NewString(),
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusConflict, "User already registered")
		return
	}

	// No SMTP dependency: the verification link goes to the server log,
	// where an operator (or a dev) can pick it up.
	log.Printf("📧 Verification link for %s: %s/auth/verify?token=%s", email, r.cfg.BaseURL, user.VerifyToken)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Check your email for the confirmation link!",
		"user":    user,
	})
}

// verifyEmail confirms a sign-up via the token from the verification link.
func (r *Router) verifyEmail(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Missing verification token")
		return
	}

	var user models.UserAuth
	if err := r.db.Where("verify_token = ?", token).First(&user).Error; err != nil {
		respondError(w, http.StatusNotFound, "Invalid or expired verification token")
		return
	}

	user.IsVerified = true
	user.VerifyToken = ""
	if err := r.db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to verify user")
		return
	}

	log.Printf("✅ Email verified: %s", user.Email)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Email verified, you can sign in now"})
}

// login handles user sign-in.
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user models.UserAuth
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if !user.IsVerified {
		respondError(w, http.StatusForbidden, "Email not confirmed")
		return
	}

	// Best-effort stamp; a failure here never blocks the sign-in.
	now := time.Now().UTC()
	user.LastLogin = &now
	if err := r.db.Save(&user).Error; err != nil {
		log.Printf("🔴 Auth: failed to stamp last login for %s: %v", user.Email, err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}
