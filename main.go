// main.go
// TNT Kiosk Central API
// Implements access-code authentication, Firestore persistence, and
// the dosing calculator endpoints used by the kiosk terminals.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tntkiosk/auth"
	"tntkiosk/config"
	"tntkiosk/db"
	"tntkiosk/handlers"
	"tntkiosk/middleware"
	"tntkiosk/models"

	"github.com/joho/godotenv"
)

// Global instances
var (
	cfg               *config.Config
	firestoreDB       *db.FirestoreDB
	jwtManager        *auth.JWTManager
	authHandler       *handlers.AuthHandler
	calculatorHandler *handlers.CalculatorHandler
	adminHandler      *handlers.AdminHandler
	reportsHandler    *handlers.ReportsHandler
	rateLimiter       *middleware.RateLimiter
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	// Load configuration
	cfg = config.Load()
	cfg.Validate()

	log.Printf("🚀 Starting TNT Kiosk API Server")
	log.Printf("📍 Environment: %s", cfg.Server.Environment)
	log.Printf("🔧 Port: %s", cfg.Server.Port)

	// Initialize Firestore
	ctx := context.Background()
	var err error
	firestoreDB, err = db.NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Firestore: %v", err)
	}
	defer firestoreDB.Close()

	// Initialize JWT Manager
	jwtManager = auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiration,
		cfg.JWT.RefreshTokenExpiration,
	)
	log.Printf("🔐 JWT Manager initialized (expiration: %v)", cfg.JWT.Expiration)

	// Initialize handlers
	authHandler = handlers.NewAuthHandler(firestoreDB, jwtManager)
	calculatorHandler = handlers.NewCalculatorHandler(firestoreDB)
	adminHandler = handlers.NewAdminHandler(firestoreDB)
	reportsHandler = handlers.NewReportsHandler(firestoreDB, cfg.Estimator)
	log.Printf("✅ Handlers initialized")

	// Initialize rate limiter
	rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	rateLimiter.CleanupOldLimiters()
	log.Printf("🛡️  Rate limiter initialized (%d requests per %v)", cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Set up router
	mux := http.NewServeMux()

	// Public routes (no authentication required)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.HandleFunc("/api/refresh", authHandler.RefreshToken)

	// Protected routes (authentication required)
	authMiddleware := middleware.AuthMiddleware(jwtManager, firestoreDB)

	// Calculator endpoints (any authenticated kiosk user)
	mux.Handle("/api/calculator/application", authMiddleware(http.HandlerFunc(calculatorHandler.GetDefaultApplication)))
	mux.Handle("/api/calculator/mix", authMiddleware(http.HandlerFunc(calculatorHandler.ComputeMix)))
	mux.Handle("/api/calculator/granular", authMiddleware(http.HandlerFunc(calculatorHandler.ComputeGranular)))

	// Admin endpoints (admin only; reads also manager)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	managerOrAdmin := middleware.RequireRole(models.RoleManager, models.RoleAdmin)
	mux.Handle("/api/admin/users", authMiddleware(managerOrAdmin(http.HandlerFunc(adminHandler.GetUsers))))
	mux.Handle("/api/admin/users/create", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.CreateUser))))
	mux.Handle("/api/admin/users/update", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.UpdateUser))))
	mux.Handle("/api/admin/users/delete", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.DeleteUser))))
	mux.Handle("/api/admin/products", authMiddleware(managerOrAdmin(http.HandlerFunc(adminHandler.GetProducts))))
	mux.Handle("/api/admin/products/create", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.CreateProduct))))
	mux.Handle("/api/admin/products/update", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.UpdateProduct))))
	mux.Handle("/api/admin/applications", authMiddleware(managerOrAdmin(http.HandlerFunc(adminHandler.GetApplications))))
	mux.Handle("/api/admin/applications/create", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.CreateApplication))))
	mux.Handle("/api/admin/applications/update", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.UpdateApplication))))
	mux.Handle("/api/admin/applications/delete", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.DeleteApplication))))
	mux.Handle("/api/admin/kiosks", authMiddleware(managerOrAdmin(http.HandlerFunc(adminHandler.GetKiosks))))
	mux.Handle("/api/admin/kiosks/create", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.CreateKiosk))))
	mux.Handle("/api/admin/kiosks/update", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.UpdateKiosk))))
	mux.Handle("/api/admin/kiosks/delete", authMiddleware(adminOnly(http.HandlerFunc(adminHandler.DeleteKiosk))))

	// Report endpoints (manager or admin)
	mux.Handle("/api/reports/loading-totals", authMiddleware(managerOrAdmin(http.HandlerFunc(reportsHandler.GetLoadingTotals))))
	mux.Handle("/api/reports/loading-totals/export", authMiddleware(managerOrAdmin(http.HandlerFunc(reportsHandler.ExportLoadingTotals))))

	// Apply global middleware
	handler := middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(mux)
	handler = rateLimiter.Middleware()(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// Health check endpoint
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":"1.0.0"}`, time.Now().Unix())
}
