package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"tntkiosk/models"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreDB wraps the Firestore client
type FirestoreDB struct {
	client *firestore.Client
	ctx    context.Context
}

// NewFirestoreDB initializes a new Firestore client
func NewFirestoreDB(ctx context.Context, projectID, credentialsPath string) (*FirestoreDB, error) {
	opt := option.WithCredentialsFile(credentialsPath)

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Printf("✅ Connected to Firestore project: %s", projectID)

	return &FirestoreDB{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.client.Close()
}

// --- User Operations ---

// CreateUser creates a new user in Firestore
func (db *FirestoreDB) CreateUser(user *models.User) error {
	_, err := db.client.Collection("users").Doc(user.UserID).Set(db.ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (db *FirestoreDB) GetUser(userID string) (*models.User, error) {
	doc, err := db.client.Collection("users").Doc(userID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}

	return &user, nil
}

// GetUserByCode retrieves an active user by their 4-digit access code
func (db *FirestoreDB) GetUserByCode(code string) (*models.User, error) {
	iter := db.client.Collection("users").
		Where("code", "==", code).
		Where("is_active", "==", true).
		Limit(1).
		Documents(db.ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no active user with that code")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}

	return &user, nil
}

// GetAllUsers retrieves all users
func (db *FirestoreDB) GetAllUsers() ([]models.User, error) {
	iter := db.client.Collection("users").Documents(db.ctx)
	defer iter.Stop()

	var users []models.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}

		var user models.User
		if err := doc.DataTo(&user); err != nil {
			log.Printf("Warning: failed to parse user %s: %v", doc.Ref.ID, err)
			continue
		}
		users = append(users, user)
	}

	return users, nil
}

// UpdateUser updates an existing user
func (db *FirestoreDB) UpdateUser(user *models.User) error {
	_, err := db.client.Collection("users").Doc(user.UserID).Set(db.ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user
func (db *FirestoreDB) DeleteUser(userID string) error {
	_, err := db.client.Collection("users").Doc(userID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// --- Product Operations ---

// CreateProduct creates a new product in Firestore
func (db *FirestoreDB) CreateProduct(product *models.Product) error {
	_, err := db.client.Collection("products").Doc(product.ProductID).Set(db.ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by ID
func (db *FirestoreDB) GetProduct(productID string) (*models.Product, error) {
	doc, err := db.client.Collection("products").Doc(productID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var product models.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return &product, nil
}

// GetAllProducts retrieves all products
func (db *FirestoreDB) GetAllProducts() ([]models.Product, error) {
	iter := db.client.Collection("products").Documents(db.ctx)
	defer iter.Stop()

	var products []models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			log.Printf("Warning: failed to parse product %s: %v", doc.Ref.ID, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// GetActiveProducts retrieves products not soft-deleted. Inactive
// products are excluded from every selection surface.
func (db *FirestoreDB) GetActiveProducts() ([]models.Product, error) {
	iter := db.client.Collection("products").
		Where("is_active", "==", true).
		Documents(db.ctx)
	defer iter.Stop()

	var products []models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			log.Printf("Warning: failed to parse product %s: %v", doc.Ref.ID, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// UpdateProduct updates an existing product
func (db *FirestoreDB) UpdateProduct(product *models.Product) error {
	_, err := db.client.Collection("products").Doc(product.ProductID).Set(db.ctx, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// --- Application Operations ---

// CreateApplication creates a new application recipe in Firestore
func (db *FirestoreDB) CreateApplication(app *models.Application) error {
	_, err := db.client.Collection("applications").Doc(app.ApplicationID).Set(db.ctx, app)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID
func (db *FirestoreDB) GetApplication(applicationID string) (*models.Application, error) {
	doc, err := db.client.Collection("applications").Doc(applicationID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	var app models.Application
	if err := doc.DataTo(&app); err != nil {
		return nil, fmt.Errorf("failed to parse application: %w", err)
	}

	return &app, nil
}

// GetAllApplications retrieves all applications ordered by ID, so the
// default-recipe pick stays deterministic across reads.
func (db *FirestoreDB) GetAllApplications() ([]models.Application, error) {
	iter := db.client.Collection("applications").
		OrderBy("application_id", firestore.Asc).
		Documents(db.ctx)
	defer iter.Stop()

	var apps []models.Application
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate applications: %w", err)
		}

		var app models.Application
		if err := doc.DataTo(&app); err != nil {
			log.Printf("Warning: failed to parse application %s: %v", doc.Ref.ID, err)
			continue
		}
		apps = append(apps, app)
	}

	return apps, nil
}

// UpdateApplication updates an existing application
func (db *FirestoreDB) UpdateApplication(app *models.Application) error {
	_, err := db.client.Collection("applications").Doc(app.ApplicationID).Set(db.ctx, app)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}

// DeleteApplication deletes an application
func (db *FirestoreDB) DeleteApplication(applicationID string) error {
	_, err := db.client.Collection("applications").Doc(applicationID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// --- Kiosk Operations ---

// CreateKiosk creates a new kiosk in Firestore
func (db *FirestoreDB) CreateKiosk(kiosk *models.Kiosk) error {
	_, err := db.client.Collection("kiosks").Doc(kiosk.KioskID).Set(db.ctx, kiosk)
	if err != nil {
		return fmt.Errorf("failed to create kiosk: %w", err)
	}
	return nil
}

// GetKiosk retrieves a kiosk by ID
func (db *FirestoreDB) GetKiosk(kioskID string) (*models.Kiosk, error) {
	doc, err := db.client.Collection("kiosks").Doc(kioskID).Get(db.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get kiosk: %w", err)
	}

	var kiosk models.Kiosk
	if err := doc.DataTo(&kiosk); err != nil {
		return nil, fmt.Errorf("failed to parse kiosk: %w", err)
	}

	return &kiosk, nil
}

// GetAllKiosks retrieves all kiosks
func (db *FirestoreDB) GetAllKiosks() ([]models.Kiosk, error) {
	iter := db.client.Collection("kiosks").Documents(db.ctx)
	defer iter.Stop()

	var kiosks []models.Kiosk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate kiosks: %w", err)
		}

		var kiosk models.Kiosk
		if err := doc.DataTo(&kiosk); err != nil {
			log.Printf("Warning: failed to parse kiosk %s: %v", doc.Ref.ID, err)
			continue
		}
		kiosks = append(kiosks, kiosk)
	}

	return kiosks, nil
}

// UpdateKiosk updates an existing kiosk
func (db *FirestoreDB) UpdateKiosk(kiosk *models.Kiosk) error {
	_, err := db.client.Collection("kiosks").Doc(kiosk.KioskID).Set(db.ctx, kiosk)
	if err != nil {
		return fmt.Errorf("failed to update kiosk: %w", err)
	}
	return nil
}

// DeleteKiosk deletes a kiosk
func (db *FirestoreDB) DeleteKiosk(kioskID string) error {
	_, err := db.client.Collection("kiosks").Doc(kioskID).Delete(db.ctx)
	if err != nil {
		return fmt.Errorf("failed to delete kiosk: %w", err)
	}
	return nil
}

// --- Activity Log Operations ---

// CreateActivityLog appends an activity log document
func (db *FirestoreDB) CreateActivityLog(entry *models.ActivityLog) error {
	_, err := db.client.Collection("activityLogs").Doc(entry.LogID).Set(db.ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// GetAllActivityLogs retrieves all activity logs. The raw document map
// is kept alongside the typed struct: historical writers used field
// names the struct never had, and gallon reconstruction probes them.
func (db *FirestoreDB) GetAllActivityLogs() ([]models.ActivityLog, error) {
	iter := db.client.Collection("activityLogs").Documents(db.ctx)
	defer iter.Stop()

	return db.collectActivityLogs(iter)
}

// GetActivityLogsSince retrieves activity logs created after a specific timestamp
func (db *FirestoreDB) GetActivityLogsSince(since time.Time) ([]models.ActivityLog, error) {
	iter := db.client.Collection("activityLogs").
		Where("created_at", ">", since).
		Documents(db.ctx)
	defer iter.Stop()

	return db.collectActivityLogs(iter)
}

func (db *FirestoreDB) collectActivityLogs(iter *firestore.DocumentIterator) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate activity logs: %w", err)
		}

		var entry models.ActivityLog
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Warning: failed to parse activity log %s: %v", doc.Ref.ID, err)
			continue
		}
		entry.Raw = doc.Data()
		entries = append(entries, entry)
	}

	return entries, nil
}

// --- Access Code Operations ---

// StoreCodeHash stores an access code hash for a user
func (db *FirestoreDB) StoreCodeHash(userID, codeHash string) error {
	_, err := db.client.Collection("accessCodes").Doc(userID).Set(db.ctx, map[string]interface{}{
		"user_id":    userID,
		"code_hash":  codeHash,
		"updated_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to store code hash: %w", err)
	}
	return nil
}

// GetCodeHash retrieves an access code hash for a user
func (db *FirestoreDB) GetCodeHash(userID string) (string, error) {
	doc, err := db.client.Collection("accessCodes").Doc(userID).Get(db.ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get code hash: %w", err)
	}

	data := doc.Data()
	if hash, ok := data["code_hash"].(string); ok {
		return hash, nil
	}

	return "", fmt.Errorf("code hash not found for user: %s", userID)
}
