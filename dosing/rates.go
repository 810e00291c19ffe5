// Package dosing implements the chemical mix calculations behind the
// kiosk calculator screens: equipment-aware rate resolution, liquid
// (rate-based) dosing, and granular (area-based) fertilizer math.
// Everything in this package is a pure function over document
// snapshots; no I/O happens here.
package dosing

import (
	"tntkiosk/models"
)

// allEquipmentTypes is the fixed resolution order used everywhere a
// set of equipment types is produced.
var allEquipmentTypes = []models.EquipmentType{
	models.EquipmentHoseTruck,
	models.EquipmentTrailer,
	models.EquipmentCartTruck,
	models.EquipmentBackpack,
}

// RateFor resolves the rate-per-gallon of a recipe line for one
// equipment type. ok is false when the rate is absent, zero, or
// negative; a not-configured rate is indistinguishable from zero.
func RateFor(line models.RecipeLine, equipment models.EquipmentType) (float64, bool) {
	var rate float64
	switch equipment {
	case models.EquipmentHoseTruck:
		rate = line.HoseRate
	case models.EquipmentTrailer:
		rate = line.TrailerRate
	case models.EquipmentCartTruck:
		rate = line.CartRate
	case models.EquipmentBackpack:
		rate = line.BackpackRate
	default:
		return 0, false
	}
	if rate <= 0 {
		return 0, false
	}
	return rate, true
}

// ValidEquipmentTypes returns the equipment types whose resolved rate
// is strictly positive, in fixed order.
func ValidEquipmentTypes(line models.RecipeLine) []models.EquipmentType {
	var valid []models.EquipmentType
	for _, equipment := range allEquipmentTypes {
		if _, ok := RateFor(line, equipment); ok {
			valid = append(valid, equipment)
		}
	}
	return valid
}

// NormalizeEquipmentTypes repairs a recipe line's equipment list at
// read time. The stored list is filtered down to rate-valid types;
// records predating the equipment_types field are migrated from the
// old two-valued truck_types field, or inferred from rate positivity.
// A line that still resolves to nothing falls back to
// {cart-truck, backpack}, the default the oldest records were written
// under. Fresh product adds use EquipmentTypesForProduct instead,
// which has a different fallback.
func NormalizeEquipmentTypes(line models.RecipeLine) []models.EquipmentType {
	return resolveEquipment(line, []models.EquipmentType{
		models.EquipmentCartTruck,
		models.EquipmentBackpack,
	})
}

// EquipmentTypesForProduct derives the equipment list for a product
// being added to a recipe fresh. Same resolution as
// NormalizeEquipmentTypes but a product with no valid types defaults
// to {cart-truck} only.
func EquipmentTypesForProduct(p models.Product) []models.EquipmentType {
	line := models.RecipeLine{
		ProductID:    p.ProductID,
		ProductName:  p.Name,
		HoseRate:     p.HoseRatePerGallon,
		CartRate:     p.CartRatePerGallon,
		TrailerRate:  p.TrailerRatePerGallon,
		BackpackRate: p.BackpackRatePerGallon,
	}
	return resolveEquipment(line, []models.EquipmentType{models.EquipmentCartTruck})
}

func resolveEquipment(line models.RecipeLine, emptyDefault []models.EquipmentType) []models.EquipmentType {
	valid := ValidEquipmentTypes(line)

	// Stored list wins when any of it is still rate-valid.
	if len(line.EquipmentTypes) > 0 {
		if kept := intersectEquipment(line.EquipmentTypes, valid); len(kept) > 0 {
			return kept
		}
		return emptyDefault
	}

	var candidates []models.EquipmentType
	if len(line.TruckTypes) > 0 {
		for _, truck := range line.TruckTypes {
			switch truck {
			case models.TruckHose:
				candidates = append(candidates, models.EquipmentHoseTruck, models.EquipmentTrailer)
			case models.TruckCart:
				candidates = append(candidates, models.EquipmentCartTruck, models.EquipmentBackpack)
			}
		}
	} else {
		if line.HoseRate > 0 {
			candidates = append(candidates, models.EquipmentHoseTruck, models.EquipmentTrailer)
		}
		if line.CartRate > 0 {
			candidates = append(candidates, models.EquipmentCartTruck, models.EquipmentBackpack)
		}
	}

	if kept := intersectEquipment(candidates, valid); len(kept) > 0 {
		return kept
	}
	return emptyDefault
}

// intersectEquipment keeps the allowed types in fixed resolution
// order, deduplicated.
func intersectEquipment(candidates, allowed []models.EquipmentType) []models.EquipmentType {
	inCandidates := make(map[models.EquipmentType]bool, len(candidates))
	for _, equipment := range candidates {
		inCandidates[equipment] = true
	}
	inAllowed := make(map[models.EquipmentType]bool, len(allowed))
	for _, equipment := range allowed {
		inAllowed[equipment] = true
	}

	var kept []models.EquipmentType
	for _, equipment := range allEquipmentTypes {
		if inCandidates[equipment] && inAllowed[equipment] {
			kept = append(kept, equipment)
		}
	}
	return kept
}
