// models.go
// Defines the Firestore document structures shared by the TNT kiosk API.

package models

import (
	"time"
)

// ProductCategory classifies a product by what it is applied for.
type ProductCategory string

const (
	CategoryFertilizer      ProductCategory = "fertilizer"
	CategoryHerbicide       ProductCategory = "herbicide"
	CategoryInsecticide     ProductCategory = "insecticide"
	CategoryFungicide       ProductCategory = "fungicide"
	CategoryPreEmergent     ProductCategory = "pre-emergent"
	CategorySpreaderSticker ProductCategory = "spreader-sticker"
	CategoryOther           ProductCategory = "other"
	// CategoryMixed is valid for applications only, never for a single product.
	CategoryMixed ProductCategory = "mixed"
)

// EquipmentType identifies which rig a rate applies to.
type EquipmentType string

const (
	EquipmentHoseTruck EquipmentType = "hose-truck"
	EquipmentTrailer   EquipmentType = "trailer"
	EquipmentCartTruck EquipmentType = "cart-truck"
	EquipmentBackpack  EquipmentType = "backpack"
)

// TruckType is the top-level truck category offered at the calculator
// screen. Hose rigs carry front/back tanks, cart rigs driver/passenger.
type TruckType string

const (
	TruckHose TruckType = "hose"
	TruckCart TruckType = "cart"
)

// KioskType restricts which applications a terminal may offer.
type KioskType string

const (
	KioskSpecialty  KioskType = "specialty"
	KioskMixed      KioskType = "mixed"
	KioskFertilizer KioskType = "fertilizer"
)

// Product is a chemical or fertilizer document in the `products`
// collection. Rate fields are independently optional; zero or absent
// means the product is not usable with that equipment.
type Product struct {
	ProductID             string          `firestore:"product_id" json:"product_id"`
	Name                  string          `firestore:"name" json:"name"`
	Category              ProductCategory `firestore:"category" json:"category"`
	HoseRatePerGallon     float64         `firestore:"hose_rate_per_gallon,omitempty" json:"hose_rate_per_gallon,omitempty"`
	CartRatePerGallon     float64         `firestore:"cart_rate_per_gallon,omitempty" json:"cart_rate_per_gallon,omitempty"`
	TrailerRatePerGallon  float64         `firestore:"trailer_rate_per_gallon,omitempty" json:"trailer_rate_per_gallon,omitempty"`
	BackpackRatePerGallon float64         `firestore:"backpack_rate_per_gallon,omitempty" json:"backpack_rate_per_gallon,omitempty"`
	PoundsPer1000SqFt     float64         `firestore:"pounds_per_1000_sqft,omitempty" json:"pounds_per_1000_sqft,omitempty"`
	PoundsPerBag          float64         `firestore:"pounds_per_bag,omitempty" json:"pounds_per_bag,omitempty"`
	Unit                  string          `firestore:"unit,omitempty" json:"unit,omitempty"`
	IsActive              bool            `firestore:"is_active" json:"is_active"`
	CreatedAt             time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `firestore:"updated_at" json:"updated_at"`
}

// RecipeLine is one product entry inside an application. Rates are
// copied from the product at authoring time, not live references.
// EquipmentTypes is the subset of equipment the line is valid for;
// legacy documents may carry the old two-valued TruckTypes instead.
type RecipeLine struct {
	ProductID      string          `firestore:"product_id" json:"product_id"`
	ProductName    string          `firestore:"product_name" json:"product_name"`
	HoseRate       float64         `firestore:"hose_rate,omitempty" json:"hose_rate,omitempty"`
	CartRate       float64         `firestore:"cart_rate,omitempty" json:"cart_rate,omitempty"`
	TrailerRate    float64         `firestore:"trailer_rate,omitempty" json:"trailer_rate,omitempty"`
	BackpackRate   float64         `firestore:"backpack_rate,omitempty" json:"backpack_rate,omitempty"`
	Unit           string          `firestore:"unit,omitempty" json:"unit,omitempty"`
	EquipmentTypes []EquipmentType `firestore:"equipment_types,omitempty" json:"equipment_types,omitempty"`
	TruckTypes     []TruckType     `firestore:"truck_types,omitempty" json:"truck_types,omitempty"`
}

// Application is an admin-authored recipe document in the
// `applications` collection: a bundle of products with
// equipment-specific dosing rates, optionally flagged default and
// restricted to certain kiosk types.
type Application struct {
	ApplicationID   string          `firestore:"application_id" json:"application_id"`
	Name            string          `firestore:"name" json:"name"`
	Description     string          `firestore:"description,omitempty" json:"description,omitempty"`
	Category        ProductCategory `firestore:"category" json:"category"`
	Products        []RecipeLine    `firestore:"products" json:"products"`
	IsActive        bool            `firestore:"is_active" json:"is_active"`
	IsDefault       bool            `firestore:"is_default" json:"is_default"`
	AvailableKiosks []KioskType     `firestore:"available_kiosks,omitempty" json:"available_kiosks,omitempty"`
	CreatedAt       time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `firestore:"updated_at" json:"updated_at"`
}

// Kiosk is a configured terminal identity in the `kiosks` collection.
type Kiosk struct {
	KioskID  string    `firestore:"kiosk_id" json:"kiosk_id"`
	Name     string    `firestore:"name" json:"name"`
	Type     KioskType `firestore:"type" json:"type"`
	Location string    `firestore:"location,omitempty" json:"location,omitempty"`
	IsActive bool      `firestore:"is_active" json:"is_active"`
}

// UserRole defines the access level of a user.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleApplicator UserRole = "APPLICATOR"
)

// User represents an applicator, manager, or admin in the `users`
// collection. Users log in at the kiosk with a 4-digit access code;
// the code hash lives in the `accessCodes` collection, keyed by user.
type User struct {
	UserID    string    `firestore:"user_id" json:"user_id"`
	Name      string    `firestore:"name" json:"name"`
	Code      string    `firestore:"code" json:"code"` // 4 digits, unique across active users
	Role      UserRole  `firestore:"role" json:"role"`
	IsActive  bool      `firestore:"is_active" json:"is_active"`
	LastLogin time.Time `firestore:"last_login" json:"last_login"`
}

// ProductUsage is one product line inside an activity log. Historical
// writers populated different subsets of these fields, so all of them
// are optional.
type ProductUsage struct {
	ProductID     string  `firestore:"product_id,omitempty" json:"product_id,omitempty"`
	Name          string  `firestore:"name" json:"name"`
	Total         float64 `firestore:"total,omitempty" json:"total,omitempty"`
	FrontTank     float64 `firestore:"front_tank,omitempty" json:"front_tank,omitempty"`
	BackTank      float64 `firestore:"back_tank,omitempty" json:"back_tank,omitempty"`
	DriverTank    float64 `firestore:"driver_tank,omitempty" json:"driver_tank,omitempty"`
	PassengerTank float64 `firestore:"passenger_tank,omitempty" json:"passenger_tank,omitempty"`
}

// ActivityLog is a document in the `activityLogs` collection. Recent
// writers record tank gallons directly; older records carry only
// product totals and have to be reconstructed (see the estimate
// package). Raw holds the full document map so reconstruction can
// probe field names that never made it into the typed struct.
type ActivityLog struct {
	LogID        string         `firestore:"log_id" json:"log_id"`
	UserID       string         `firestore:"user_id,omitempty" json:"user_id,omitempty"`
	UserCode     string         `firestore:"user_code" json:"user_code"`
	KioskID      string         `firestore:"kiosk_id,omitempty" json:"kiosk_id,omitempty"`
	TruckType    TruckType      `firestore:"truck_type,omitempty" json:"truck_type,omitempty"`
	Products     []ProductUsage `firestore:"products,omitempty" json:"products,omitempty"`
	Tank1Gallons float64        `firestore:"tank1_gallons,omitempty" json:"tank1_gallons,omitempty"`
	Tank2Gallons float64        `firestore:"tank2_gallons,omitempty" json:"tank2_gallons,omitempty"`
	Details      string         `firestore:"details,omitempty" json:"details,omitempty"`
	CreatedAt    time.Time      `firestore:"created_at" json:"created_at"`

	Raw map[string]interface{} `firestore:"-" json:"-"`
}
