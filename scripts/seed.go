package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tntkiosk/auth"
	"tntkiosk/config"
	"tntkiosk/db"
	"tntkiosk/models"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()
	cfg.Validate()

	// Initialize Firestore
	ctx := context.Background()
	firestoreDB, err := db.NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer firestoreDB.Close()

	log.Println("🌱 Starting database seeding...")

	if err := seedKiosks(firestoreDB); err != nil {
		log.Fatalf("Failed to seed kiosks: %v", err)
	}

	if err := seedProducts(firestoreDB); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	if err := seedApplications(firestoreDB); err != nil {
		log.Fatalf("Failed to seed applications: %v", err)
	}

	if err := seedUsers(firestoreDB); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}

func seedKiosks(db *db.FirestoreDB) error {
	kiosks := []models.Kiosk{
		{
			KioskID:  "kiosk-shop-main",
			Name:     "Shop Main Bay",
			Type:     models.KioskMixed,
			Location: "Loading dock",
			IsActive: true,
		},
		{
			KioskID:  "kiosk-fert-shed",
			Name:     "Fertilizer Shed",
			Type:     models.KioskFertilizer,
			Location: "North shed",
			IsActive: true,
		},
		{
			KioskID:  "kiosk-specialty",
			Name:     "Specialty Rig Bay",
			Type:     models.KioskSpecialty,
			Location: "Bay 3",
			IsActive: true,
		},
	}

	for _, kiosk := range kiosks {
		if err := db.CreateKiosk(&kiosk); err != nil {
			return fmt.Errorf("failed to create kiosk %s: %w", kiosk.KioskID, err)
		}
		log.Printf("  ✓ Created kiosk: %s", kiosk.Name)
	}

	return nil
}

func seedProducts(db *db.FirestoreDB) error {
	now := time.Now()
	products := []models.Product{
		{
			ProductID:         "product-3way",
			Name:              "Three-Way Broadleaf",
			Category:          models.CategoryHerbicide,
			HoseRatePerGallon: 1.1,
			CartRatePerGallon: 1.5,
			Unit:              "oz",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ProductID:            "product-prodiamine",
			Name:                 "Prodiamine 65 WDG",
			Category:             models.CategoryPreEmergent,
			HoseRatePerGallon:    0.183,
			CartRatePerGallon:    0.25,
			TrailerRatePerGallon: 0.183,
			Unit:                 "oz",
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
		{
			ProductID:             "product-bifenthrin",
			Name:                  "Bifenthrin 7.9",
			Category:              models.CategoryInsecticide,
			CartRatePerGallon:     0.5,
			BackpackRatePerGallon: 1.0,
			Unit:                  "oz",
			IsActive:              true,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
		{
			ProductID:         "product-24-0-11",
			Name:              "24-0-11 Granular",
			Category:          models.CategoryFertilizer,
			PoundsPer1000SqFt: 3.0,
			PoundsPerBag:      50,
			Unit:              "lbs",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	for _, product := range products {
		if err := db.CreateProduct(&product); err != nil {
			return fmt.Errorf("failed to create product %s: %w", product.ProductID, err)
		}
		log.Printf("  ✓ Created product: %s", product.Name)
	}

	return nil
}

func seedApplications(db *db.FirestoreDB) error {
	now := time.Now()
	app := models.Application{
		ApplicationID: "app-spring-round",
		Name:          "Spring Round",
		Description:   "Broadleaf control with pre-emergent",
		Category:      models.CategoryMixed,
		Products: []models.RecipeLine{
			{
				ProductID:   "product-3way",
				ProductName: "Three-Way Broadleaf",
				HoseRate:    1.1,
				CartRate:    1.5,
				Unit:        "oz",
				EquipmentTypes: []models.EquipmentType{
					models.EquipmentHoseTruck,
					models.EquipmentCartTruck,
				},
			},
			{
				ProductID:   "product-prodiamine",
				ProductName: "Prodiamine 65 WDG",
				HoseRate:    0.183,
				CartRate:    0.25,
				TrailerRate: 0.183,
				Unit:        "oz",
				EquipmentTypes: []models.EquipmentType{
					models.EquipmentHoseTruck,
					models.EquipmentTrailer,
					models.EquipmentCartTruck,
				},
			},
		},
		IsActive:        true,
		IsDefault:       true,
		AvailableKiosks: []models.KioskType{models.KioskSpecialty, models.KioskMixed},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := db.CreateApplication(&app); err != nil {
		return fmt.Errorf("failed to create application %s: %w", app.ApplicationID, err)
	}
	log.Printf("  ✓ Created application: %s (default)", app.Name)

	return nil
}

func seedUsers(firestoreDB *db.FirestoreDB) error {
	users := []struct {
		User models.User
		Code string
	}{
		{
			User: models.User{
				UserID:   "user-admin",
				Name:     "Office Admin",
				Role:     models.RoleAdmin,
				IsActive: true,
			},
			Code: "9001",
		},
		{
			User: models.User{
				UserID:   "user-manager",
				Name:     "Route Manager",
				Role:     models.RoleManager,
				IsActive: true,
			},
			Code: "9002",
		},
		{
			User: models.User{
				UserID:   "user-applicator-1",
				Name:     "Applicator One",
				Role:     models.RoleApplicator,
				IsActive: true,
			},
			Code: "1001",
		},
		{
			User: models.User{
				UserID:   "user-applicator-2",
				Name:     "Applicator Two",
				Role:     models.RoleApplicator,
				IsActive: true,
			},
			Code: "1002",
		},
	}

	for _, userData := range users {
		userData.User.Code = userData.Code
		userData.User.LastLogin = time.Now()

		if err := firestoreDB.CreateUser(&userData.User); err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.User.Name, err)
		}

		codeHash, err := auth.HashAccessCode(userData.Code)
		if err != nil {
			return fmt.Errorf("failed to hash access code for %s: %w", userData.User.Name, err)
		}

		if err := firestoreDB.StoreCodeHash(userData.User.UserID, codeHash); err != nil {
			return fmt.Errorf("failed to store access code for %s: %w", userData.User.Name, err)
		}

		log.Printf("  ✓ Created user: %s (role: %s)", userData.User.Name, userData.User.Role)
	}

	return nil
}
