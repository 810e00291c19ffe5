package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"tntkiosk/db"
	"tntkiosk/dosing"
	"tntkiosk/middleware"
	"tntkiosk/models"
)

// CalculatorHandler serves the kiosk calculator screens: the resolved
// default application, liquid mix computation, and granular fertilizer
// computation. Every successful calculation is recorded as an activity
// log document.
type CalculatorHandler struct {
	db *db.FirestoreDB
}

func NewCalculatorHandler(firestoreDB *db.FirestoreDB) *CalculatorHandler {
	return &CalculatorHandler{
		db: firestoreDB,
	}
}

type DefaultApplicationResponse struct {
	Application *models.Application `json:"application"`
	// Ambiguous reports the multiple-default data inconsistency; the
	// pick itself stays deterministic.
	Ambiguous bool `json:"ambiguous"`
}

// GetDefaultApplication returns the recipe the mix calculator computes
// against, with legacy equipment lists repaired at read time.
func (h *CalculatorHandler) GetDefaultApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	app, ambiguous, err := h.resolveDefaultApplication()
	if err != nil {
		if errors.Is(err, dosing.ErrNoDefaultApplication) {
			writeError(w, "No default application configured", http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to resolve default application: %v", err)
		writeError(w, "Failed to retrieve applications", http.StatusInternalServerError)
		return
	}

	if ambiguous {
		log.Printf("⚠️  Multiple default applications flagged; using %s", app.ApplicationID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DefaultApplicationResponse{
		Application: app,
		Ambiguous:   ambiguous,
	})
}

type MixRequest struct {
	TruckType    models.TruckType `json:"truck_type"`
	Tank1Gallons float64          `json:"tank1_gallons"`
	Tank2Gallons float64          `json:"tank2_gallons"`
}

// ComputeMix runs the liquid dosing calculation against the default
// application and logs the load.
func (h *CalculatorHandler) ComputeMix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req MixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	app, ambiguous, err := h.resolveDefaultApplication()
	if err != nil {
		if errors.Is(err, dosing.ErrNoDefaultApplication) {
			writeError(w, "No default application configured", http.StatusConflict)
			return
		}
		log.Printf("❌ Failed to resolve default application: %v", err)
		writeError(w, "Failed to retrieve applications", http.StatusInternalServerError)
		return
	}
	if ambiguous {
		log.Printf("⚠️  Multiple default applications flagged; using %s", app.ApplicationID)
	}

	kioskID := middleware.GetKioskFromContext(r.Context())
	if err := h.checkKioskAllowed(kioskID, app); err != nil {
		writeError(w, err.Error(), http.StatusForbidden)
		return
	}

	result, err := dosing.ComputeMix(app, req.TruckType, req.Tank1Gallons, req.Tank2Gallons)
	if err != nil {
		writeCalcError(w, err)
		return
	}

	h.logMix(user, kioskID, result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type GranularRequest struct {
	ProductID string  `json:"product_id"`
	Units     float64 `json:"units"` // area in units of 1000 sq ft
}

// ComputeGranular runs the area-based fertilizer calculation for one
// product and logs the load.
func (h *CalculatorHandler) ComputeGranular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req GranularRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ProductID == "" {
		writeCalcError(w, dosing.ErrNoProduct)
		return
	}

	product, err := h.db.GetProduct(req.ProductID)
	if err != nil {
		writeError(w, "Product not found", http.StatusNotFound)
		return
	}
	if !product.IsActive {
		writeError(w, "Product is inactive", http.StatusConflict)
		return
	}

	result, err := dosing.ComputeGranular(product, req.Units)
	if err != nil {
		writeCalcError(w, err)
		return
	}

	h.logGranular(user, middleware.GetKioskFromContext(r.Context()), result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// resolveDefaultApplication loads all recipes in stable order, picks
// the default, and repairs legacy equipment lists on its lines.
func (h *CalculatorHandler) resolveDefaultApplication() (*models.Application, bool, error) {
	apps, err := h.db.GetAllApplications()
	if err != nil {
		return nil, false, err
	}

	app, ambiguous, err := dosing.ResolveDefault(apps)
	if err != nil {
		return nil, false, err
	}

	for i := range app.Products {
		app.Products[i].EquipmentTypes = dosing.NormalizeEquipmentTypes(app.Products[i])
	}
	return app, ambiguous, nil
}

// checkKioskAllowed enforces the recipe's kiosk-type restriction for
// terminals that logged in with a kiosk identity. An empty
// availableKiosks list means unrestricted.
func (h *CalculatorHandler) checkKioskAllowed(kioskID string, app *models.Application) error {
	if kioskID == "" || len(app.AvailableKiosks) == 0 {
		return nil
	}

	kiosk, err := h.db.GetKiosk(kioskID)
	if err != nil {
		return errors.New("kiosk not found")
	}
	for _, kioskType := range app.AvailableKiosks {
		if kiosk.Type == kioskType {
			return nil
		}
	}
	return fmt.Errorf("application %s is not offered on %s kiosks", app.Name, kiosk.Type)
}

func (h *CalculatorHandler) logMix(user *models.User, kioskID string, result *dosing.MixResult) {
	entry := &models.ActivityLog{
		LogID:        fmt.Sprintf("log-%d", time.Now().UnixNano()),
		UserID:       user.UserID,
		UserCode:     user.Code,
		KioskID:      kioskID,
		TruckType:    result.TruckType,
		Tank1Gallons: result.Tank1Gallons,
		Tank2Gallons: result.Tank2Gallons,
		CreatedAt:    time.Now(),
	}
	for _, line := range result.Lines {
		usage := models.ProductUsage{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Total:     line.TotalOunces,
		}
		if result.TruckType == models.TruckCart {
			usage.DriverTank = line.Tank1Ounces
			usage.PassengerTank = line.Tank2Ounces
		} else {
			usage.FrontTank = line.Tank1Ounces
			usage.BackTank = line.Tank2Ounces
		}
		entry.Products = append(entry.Products, usage)
	}

	// A failed log must not block the mix display on the kiosk.
	if err := h.db.CreateActivityLog(entry); err != nil {
		log.Printf("Warning: failed to log mix activity for user %s: %v", user.UserID, err)
	}
}

func (h *CalculatorHandler) logGranular(user *models.User, kioskID string, result *dosing.GranularResult) {
	entry := &models.ActivityLog{
		LogID:    fmt.Sprintf("log-%d", time.Now().UnixNano()),
		UserID:   user.UserID,
		UserCode: user.Code,
		KioskID:  kioskID,
		Products: []models.ProductUsage{{
			ProductID: result.ProductID,
			Name:      result.ProductName,
			Total:     result.TotalPounds,
		}},
		Details:   fmt.Sprintf("granular: %.1f units, %d bags", result.Units, result.TotalBags),
		CreatedAt: time.Now(),
	}

	if err := h.db.CreateActivityLog(entry); err != nil {
		log.Printf("Warning: failed to log granular activity for user %s: %v", user.UserID, err)
	}
}

// writeCalcError maps the dosing package's refusal conditions onto
// HTTP statuses. Invalid input is the caller's fault; missing
// configuration is a conflict the admin surface has to fix.
func writeCalcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dosing.ErrNoTankVolume),
		errors.Is(err, dosing.ErrInvalidVolume),
		errors.Is(err, dosing.ErrUnknownTruckType),
		errors.Is(err, dosing.ErrInvalidArea),
		errors.Is(err, dosing.ErrNoProduct):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dosing.ErrNotConfigured),
		errors.Is(err, dosing.ErrNoDefaultApplication):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		writeError(w, "Calculation failed", http.StatusInternalServerError)
	}
}
