package dosing

import (
	"errors"

	"tntkiosk/models"
)

// Calculation refusal conditions. Callers surface these as disabled
// buttons or messages; none of them mean "dose zero". Dosing zero
// ounces because of a missing rate would be indistinguishable from a
// correct zero result, and that difference is safety-relevant.
var (
	ErrNoTankVolume         = errors.New("no tank volume entered")
	ErrInvalidVolume        = errors.New("tank volume must not be negative")
	ErrUnknownTruckType     = errors.New("unknown truck type")
	ErrNotConfigured        = errors.New("application has no product with a rate for this truck type")
	ErrNoDefaultApplication = errors.New("no default application configured")
	ErrNoProduct            = errors.New("no product selected")
	ErrInvalidArea          = errors.New("area must be greater than zero")
)

// MixLine is the computed dose for one product in the recipe.
type MixLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Unit        string  `json:"unit,omitempty"`
	Rate        float64 `json:"rate"`
	Tank1Ounces float64 `json:"tank1_ounces"`
	Tank2Ounces float64 `json:"tank2_ounces"`
	TotalOunces float64 `json:"total_ounces"`
}

// MixResult is the full output of a liquid mix calculation. Tank slots
// are positional; the labels carry the per-truck naming (front/back on
// hose rigs, driver/passenger on carts) for presentation only.
type MixResult struct {
	TruckType    models.TruckType `json:"truck_type"`
	Tank1Label   string           `json:"tank1_label"`
	Tank2Label   string           `json:"tank2_label"`
	Tank1Gallons float64          `json:"tank1_gallons"`
	Tank2Gallons float64          `json:"tank2_gallons"`
	Lines        []MixLine        `json:"lines"`
}

// TankLabels returns the presentation names of the two tank slots for
// a truck type.
func TankLabels(truck models.TruckType) (string, string) {
	if truck == models.TruckCart {
		return "Driver", "Passenger"
	}
	return "Front", "Back"
}

// ComputeMix calculates per-tank and total ounces for every product in
// the application at the given tank volumes. Lines without a positive
// rate for the truck type are skipped; if every line is skipped the
// application is not configured for that truck and ErrNotConfigured is
// returned. Both tanks at zero is a no-op, reported as ErrNoTankVolume
// rather than an empty result.
func ComputeMix(app *models.Application, truck models.TruckType, tank1Gallons, tank2Gallons float64) (*MixResult, error) {
	if app == nil {
		return nil, ErrNoDefaultApplication
	}
	if truck != models.TruckHose && truck != models.TruckCart {
		return nil, ErrUnknownTruckType
	}
	if tank1Gallons < 0 || tank2Gallons < 0 {
		return nil, ErrInvalidVolume
	}
	if tank1Gallons == 0 && tank2Gallons == 0 {
		return nil, ErrNoTankVolume
	}

	var lines []MixLine
	for _, entry := range app.Products {
		rate := entry.HoseRate
		if truck == models.TruckCart {
			rate = entry.CartRate
		}
		if rate <= 0 {
			continue
		}

		tank1Ounces := tank1Gallons * rate
		tank2Ounces := tank2Gallons * rate
		lines = append(lines, MixLine{
			ProductID:   entry.ProductID,
			ProductName: entry.ProductName,
			Unit:        entry.Unit,
			Rate:        rate,
			Tank1Ounces: tank1Ounces,
			Tank2Ounces: tank2Ounces,
			TotalOunces: tank1Ounces + tank2Ounces,
		})
	}

	if len(lines) == 0 {
		return nil, ErrNotConfigured
	}

	tank1Label, tank2Label := TankLabels(truck)
	return &MixResult{
		TruckType:    truck,
		Tank1Label:   tank1Label,
		Tank2Label:   tank2Label,
		Tank1Gallons: tank1Gallons,
		Tank2Gallons: tank2Gallons,
		Lines:        lines,
	}, nil
}

// ResolveDefault picks the application the calculator computes
// against: the first active document flagged default, in the given
// (stable) order. More than one default is a data inconsistency the
// store does not prevent; the pick stays deterministic and ambiguous
// reports the condition so the admin surface can flag it.
func ResolveDefault(apps []models.Application) (app *models.Application, ambiguous bool, err error) {
	for i := range apps {
		if !apps[i].IsDefault || !apps[i].IsActive {
			continue
		}
		if app == nil {
			app = &apps[i]
		} else {
			ambiguous = true
		}
	}
	if app == nil {
		return nil, false, ErrNoDefaultApplication
	}
	return app, ambiguous, nil
}
