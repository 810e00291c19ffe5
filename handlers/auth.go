package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tntkiosk/auth"
	"tntkiosk/db"
	"tntkiosk/models"
)

type AuthHandler struct {
	db         *db.FirestoreDB
	jwtManager *auth.JWTManager
}

func NewAuthHandler(firestoreDB *db.FirestoreDB, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		db:         firestoreDB,
		jwtManager: jwtManager,
	}
}

type LoginRequest struct {
	Code    string `json:"code"`
	KioskID string `json:"kiosk_id,omitempty"`
}

type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// Login authenticates an applicator by their 4-digit access code. The
// kiosk the terminal was configured with rides along so later
// calculator requests carry a terminal identity.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := auth.ValidateAccessCode(req.Code); err != nil {
		writeError(w, "Invalid access code", http.StatusUnauthorized)
		return
	}

	user, err := h.db.GetUserByCode(req.Code)
	if err != nil {
		log.Printf("Login failed: no active user for submitted code")
		writeError(w, "Invalid access code", http.StatusUnauthorized)
		return
	}

	codeHash, err := h.db.GetCodeHash(user.UserID)
	if err != nil {
		log.Printf("Login failed for user %s: code hash not found", user.UserID)
		writeError(w, "Invalid access code", http.StatusUnauthorized)
		return
	}

	if err := auth.CheckAccessCode(req.Code, codeHash); err != nil {
		log.Printf("Login failed for user %s: code mismatch", user.UserID)
		writeError(w, "Invalid access code", http.StatusUnauthorized)
		return
	}

	if req.KioskID != "" {
		kiosk, err := h.db.GetKiosk(req.KioskID)
		if err != nil || !kiosk.IsActive {
			writeError(w, "Unknown or inactive kiosk", http.StatusUnauthorized)
			return
		}
	}

	user.LastLogin = time.Now()
	if err := h.db.UpdateUser(user); err != nil {
		log.Printf("Warning: failed to update last login for user %s: %v", user.UserID, err)
	}

	token, err := h.jwtManager.GenerateToken(user, req.KioskID)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", user.UserID, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.jwtManager.GenerateRefreshToken(user, req.KioskID)
	if err != nil {
		log.Printf("Failed to generate refresh token for user %s: %v", user.UserID, err)
		writeError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User logged in: %s (role: %s)", user.Name, user.Role)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		writeError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.db.GetUser(claims.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(user, claims.KioskID)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", user.UserID, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RefreshTokenResponse{
		Token: token,
	})
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
