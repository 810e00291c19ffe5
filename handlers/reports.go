package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"tntkiosk/config"
	"tntkiosk/db"
	"tntkiosk/estimate"
	"tntkiosk/middleware"
	"tntkiosk/models"
)

// ReportsHandler aggregates loading totals per applicator. Tank
// gallons for old activity logs are reconstructed by the estimate
// package, so the report discloses which totals are exact and which
// are approximate.
type ReportsHandler struct {
	db  *db.FirestoreDB
	cfg config.EstimatorConfig
}

func NewReportsHandler(firestoreDB *db.FirestoreDB, cfg config.EstimatorConfig) *ReportsHandler {
	return &ReportsHandler{
		db:  firestoreDB,
		cfg: cfg,
	}
}

type LoadingTotalsResponse struct {
	Totals []estimate.UserTotals `json:"totals"`
	Count  int                   `json:"count"`
}

// GetLoadingTotals returns per-user gallon totals, optionally limited
// to records created after ?since=RFC3339.
func (h *ReportsHandler) GetLoadingTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	totals, err := h.loadingTotals(r)
	if err != nil {
		if err == errBadSince {
			writeError(w, "Invalid 'since' parameter format. Use RFC3339", http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to get activity logs: %v", err)
		writeError(w, "Failed to retrieve activity logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoadingTotalsResponse{
		Totals: totals,
		Count:  len(totals),
	})
}

// ExportLoadingTotals exports the same aggregation as CSV
func (h *ReportsHandler) ExportLoadingTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	totals, err := h.loadingTotals(r)
	if err != nil {
		if err == errBadSince {
			writeError(w, "Invalid 'since' parameter format. Use RFC3339", http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to get activity logs: %v", err)
		writeError(w, "Failed to retrieve activity logs", http.StatusInternalServerError)
		return
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("tnt_loading_totals_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"User Code",
		"Records",
		"Tank 1 Gallons",
		"Tank 2 Gallons",
		"Total Gallons",
		"Has Estimated",
		"Has Authoritative",
	}
	if err := writer.Write(header); err != nil {
		log.Printf("❌ Failed to write CSV header: %v", err)
		return
	}

	for _, row := range totals {
		record := []string{
			row.UserCode,
			strconv.Itoa(row.Records),
			strconv.FormatFloat(row.Tank1Gallons, 'f', 2, 64),
			strconv.FormatFloat(row.Tank2Gallons, 'f', 2, 64),
			strconv.FormatFloat(row.TotalGallons, 'f', 2, 64),
			strconv.FormatBool(row.HasEstimated),
			strconv.FormatBool(row.HasAuthoritative),
		}
		if err := writer.Write(record); err != nil {
			log.Printf("❌ Failed to write CSV row: %v", err)
			return
		}
	}

	log.Printf("📊 CSV export by %s: %d users", user.Name, len(totals))
}

var errBadSince = fmt.Errorf("invalid since parameter")

func (h *ReportsHandler) loadingTotals(r *http.Request) ([]estimate.UserTotals, error) {
	var (
		records []models.ActivityLog
		err     error
	)
	if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
		sinceTime, parseErr := time.Parse(time.RFC3339, sinceParam)
		if parseErr != nil {
			return nil, errBadSince
		}
		records, err = h.db.GetActivityLogsSince(sinceTime)
	} else {
		records, err = h.db.GetAllActivityLogs()
	}
	if err != nil {
		return nil, err
	}

	// Reconstruction divides by whatever rate the product carries
	// today, so the full catalog is loaded, inactive products
	// included: a retired product can still be the only rate signal
	// an old record has.
	products, err := h.db.GetAllProducts()
	if err != nil {
		return nil, err
	}

	estimator := estimate.NewEstimator(products, h.cfg.FallbackUserCodes, h.cfg.FallbackGallons)
	return estimator.AggregateByUser(records), nil
}
