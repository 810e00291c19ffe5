package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"tntkiosk/auth"
	"tntkiosk/db"
	"tntkiosk/dosing"
	"tntkiosk/middleware"
	"tntkiosk/models"
)

// AdminHandler manages users, products, application recipes, and
// kiosk configuration.
type AdminHandler struct {
	db *db.FirestoreDB
}

func NewAdminHandler(firestoreDB *db.FirestoreDB) *AdminHandler {
	return &AdminHandler{
		db: firestoreDB,
	}
}

// --- User Management ---

type CreateUserRequest struct {
	Name string          `json:"name"`
	Code string          `json:"code"`
	Role models.UserRole `json:"role"`
}

type UpdateUserRequest struct {
	UserID   string          `json:"user_id"`
	Name     string          `json:"name,omitempty"`
	Code     string          `json:"code,omitempty"`
	Role     models.UserRole `json:"role,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUsers returns all users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.db.GetAllUsers()
	if err != nil {
		log.Printf("❌ Failed to get users: %v", err)
		writeError(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// CreateUser creates a new user with a 4-digit access code
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if err := auth.ValidateAccessCode(req.Code); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleApplicator
	}

	// The code is the kiosk login key; two active users must never
	// share one.
	existingUser, _ := h.db.GetUserByCode(req.Code)
	if existingUser != nil {
		writeError(w, "Access code already in use", http.StatusConflict)
		return
	}

	user := &models.User{
		UserID:    fmt.Sprintf("user-%d", time.Now().UnixNano()),
		Name:      req.Name,
		Code:      req.Code,
		Role:      req.Role,
		IsActive:  true,
		LastLogin: time.Time{},
	}

	if err := h.db.CreateUser(user); err != nil {
		log.Printf("❌ Failed to create user: %v", err)
		writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	codeHash, err := auth.HashAccessCode(req.Code)
	if err != nil {
		log.Printf("❌ Failed to hash access code: %v", err)
		writeError(w, "Failed to store access code", http.StatusInternalServerError)
		return
	}
	if err := h.db.StoreCodeHash(user.UserID, codeHash); err != nil {
		log.Printf("❌ Failed to store access code: %v", err)
		writeError(w, "Failed to store access code", http.StatusInternalServerError)
		return
	}

	log.Printf("👤 User created by %s: %s (role: %s)", adminUser.Name, user.Name, user.Role)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// UpdateUser updates an existing user
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetUser(req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Code != "" {
		if err := auth.ValidateAccessCode(req.Code); err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		existingUser, _ := h.db.GetUserByCode(req.Code)
		if existingUser != nil && existingUser.UserID != user.UserID {
			writeError(w, "Access code already in use", http.StatusConflict)
			return
		}
		codeHash, err := auth.HashAccessCode(req.Code)
		if err != nil {
			writeError(w, "Failed to store access code", http.StatusInternalServerError)
			return
		}
		if err := h.db.StoreCodeHash(user.UserID, codeHash); err != nil {
			log.Printf("❌ Failed to store access code: %v", err)
			writeError(w, "Failed to store access code", http.StatusInternalServerError)
			return
		}
		user.Code = req.Code
	}

	if err := h.db.UpdateUser(user); err != nil {
		log.Printf("❌ Failed to update user: %v", err)
		writeError(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// DeleteUser deletes a user
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteUser(req.UserID); err != nil {
		log.Printf("❌ Failed to delete user: %v", err)
		writeError(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted"})
}

// --- Product Management ---

// GetProducts returns products; ?active=true narrows to the selection
// surface applicators see.
func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		products []models.Product
		err      error
	)
	if r.URL.Query().Get("active") == "true" {
		products, err = h.db.GetActiveProducts()
	} else {
		products, err = h.db.GetAllProducts()
	}
	if err != nil {
		log.Printf("❌ Failed to get products: %v", err)
		writeError(w, "Failed to retrieve products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// CreateProduct creates a new product
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.Name == "" {
		writeError(w, "Product name is required", http.StatusBadRequest)
		return
	}
	if hasNegativeRate(product) {
		writeError(w, "Rates must not be negative", http.StatusBadRequest)
		return
	}

	if product.ProductID == "" {
		product.ProductID = fmt.Sprintf("product-%d", time.Now().UnixNano())
	}
	product.IsActive = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if err := h.db.CreateProduct(&product); err != nil {
		log.Printf("❌ Failed to create product: %v", err)
		writeError(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// UpdateProduct updates an existing product, including soft deletion
// via is_active.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.ProductID == "" {
		writeError(w, "Product ID is required", http.StatusBadRequest)
		return
	}
	if hasNegativeRate(product) {
		writeError(w, "Rates must not be negative", http.StatusBadRequest)
		return
	}

	existing, err := h.db.GetProduct(product.ProductID)
	if err != nil {
		writeError(w, "Product not found", http.StatusNotFound)
		return
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := h.db.UpdateProduct(&product); err != nil {
		log.Printf("❌ Failed to update product: %v", err)
		writeError(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

func hasNegativeRate(p models.Product) bool {
	return p.HoseRatePerGallon < 0 || p.CartRatePerGallon < 0 ||
		p.TrailerRatePerGallon < 0 || p.BackpackRatePerGallon < 0 ||
		p.PoundsPer1000SqFt < 0 || p.PoundsPerBag < 0
}

// --- Application Management ---

// GetApplications returns all application recipes with legacy
// equipment lists repaired at read time.
func (h *AdminHandler) GetApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	apps, err := h.db.GetAllApplications()
	if err != nil {
		log.Printf("❌ Failed to get applications: %v", err)
		writeError(w, "Failed to retrieve applications", http.StatusInternalServerError)
		return
	}

	for i := range apps {
		for j := range apps[i].Products {
			apps[i].Products[j].EquipmentTypes = dosing.NormalizeEquipmentTypes(apps[i].Products[j])
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apps)
}

// CreateApplication creates a new application recipe. Rates are copied
// from the current product documents at authoring time; a line added
// without an equipment list gets the fresh-add derivation.
func (h *AdminHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if app.Name == "" || len(app.Products) == 0 {
		writeError(w, "Name and at least one product are required", http.StatusBadRequest)
		return
	}

	for i := range app.Products {
		line := &app.Products[i]
		product, err := h.db.GetProduct(line.ProductID)
		if err != nil {
			writeError(w, fmt.Sprintf("Unknown product: %s", line.ProductID), http.StatusBadRequest)
			return
		}
		line.ProductName = product.Name
		line.Unit = product.Unit
		line.HoseRate = product.HoseRatePerGallon
		line.CartRate = product.CartRatePerGallon
		line.TrailerRate = product.TrailerRatePerGallon
		line.BackpackRate = product.BackpackRatePerGallon
		if len(line.EquipmentTypes) == 0 {
			line.EquipmentTypes = dosing.EquipmentTypesForProduct(*product)
		}
	}

	if app.ApplicationID == "" {
		app.ApplicationID = fmt.Sprintf("app-%d", time.Now().UnixNano())
	}
	app.IsActive = true
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt

	if err := h.db.CreateApplication(&app); err != nil {
		log.Printf("❌ Failed to create application: %v", err)
		writeError(w, "Failed to create application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(app)
}

// UpdateApplication updates an existing application recipe
func (h *AdminHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if app.ApplicationID == "" {
		writeError(w, "Application ID is required", http.StatusBadRequest)
		return
	}

	existing, err := h.db.GetApplication(app.ApplicationID)
	if err != nil {
		writeError(w, "Application not found", http.StatusNotFound)
		return
	}
	app.CreatedAt = existing.CreatedAt
	app.UpdatedAt = time.Now()

	if err := h.db.UpdateApplication(&app); err != nil {
		log.Printf("❌ Failed to update application: %v", err)
		writeError(w, "Failed to update application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(app)
}

// DeleteApplication deletes an application recipe
func (h *AdminHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ApplicationID string `json:"application_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ApplicationID == "" {
		writeError(w, "Application ID is required", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteApplication(req.ApplicationID); err != nil {
		log.Printf("❌ Failed to delete application: %v", err)
		writeError(w, "Failed to delete application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Application deleted"})
}

// --- Kiosk Management ---

// GetKiosks returns all kiosk terminals
func (h *AdminHandler) GetKiosks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kiosks, err := h.db.GetAllKiosks()
	if err != nil {
		log.Printf("❌ Failed to get kiosks: %v", err)
		writeError(w, "Failed to retrieve kiosks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(kiosks)
}

// CreateKiosk registers a new kiosk terminal
func (h *AdminHandler) CreateKiosk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var kiosk models.Kiosk
	if err := json.NewDecoder(r.Body).Decode(&kiosk); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if kiosk.Name == "" {
		writeError(w, "Kiosk name is required", http.StatusBadRequest)
		return
	}
	switch kiosk.Type {
	case models.KioskSpecialty, models.KioskMixed, models.KioskFertilizer:
	default:
		writeError(w, "Invalid kiosk type", http.StatusBadRequest)
		return
	}

	if kiosk.KioskID == "" {
		kiosk.KioskID = fmt.Sprintf("kiosk-%d", time.Now().UnixNano())
	}
	kiosk.IsActive = true

	if err := h.db.CreateKiosk(&kiosk); err != nil {
		log.Printf("❌ Failed to create kiosk: %v", err)
		writeError(w, "Failed to create kiosk", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(kiosk)
}

// DeleteKiosk removes a kiosk terminal
func (h *AdminHandler) DeleteKiosk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		KioskID string `json:"kiosk_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.KioskID == "" {
		writeError(w, "Kiosk ID is required", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteKiosk(req.KioskID); err != nil {
		log.Printf("❌ Failed to delete kiosk: %v", err)
		writeError(w, "Failed to delete kiosk", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Kiosk deleted"})
}

// UpdateKiosk updates an existing kiosk terminal
func (h *AdminHandler) UpdateKiosk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var kiosk models.Kiosk
	if err := json.NewDecoder(r.Body).Decode(&kiosk); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if kiosk.KioskID == "" {
		writeError(w, "Kiosk ID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.db.GetKiosk(kiosk.KioskID); err != nil {
		writeError(w, "Kiosk not found", http.StatusNotFound)
		return
	}

	if err := h.db.UpdateKiosk(&kiosk); err != nil {
		log.Printf("❌ Failed to update kiosk: %v", err)
		writeError(w, "Failed to update kiosk", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(kiosk)
}
