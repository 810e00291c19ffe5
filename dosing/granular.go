package dosing

import (
	"math"

	"tntkiosk/models"
)

const squareFeetPerAcre = 43560.0

// GranularResult is the output of an area-based fertilizer
// calculation.
type GranularResult struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Units       float64 `json:"units"` // area in units of 1000 sq ft, as entered
	SquareFeet  float64 `json:"square_feet"`
	Acres       float64 `json:"acres"`
	TotalPounds float64 `json:"total_pounds"`
	TotalBags   int     `json:"total_bags"`
}

// ComputeGranular calculates fertilizer weight and bag count for an
// area. The area is entered in units of 1000 square feet — the unit
// convention of the input screen — and acres are re-derived from it
// for display. Bag count rounds up; a product without a bag weight
// yields zero bags rather than dividing by zero.
func ComputeGranular(p *models.Product, units float64) (*GranularResult, error) {
	if p == nil {
		return nil, ErrNoProduct
	}
	if units <= 0 {
		return nil, ErrInvalidArea
	}

	totalPounds := units * p.PoundsPer1000SqFt
	totalBags := 0
	if p.PoundsPerBag > 0 {
		totalBags = int(math.Ceil(totalPounds / p.PoundsPerBag))
	}

	squareFeet := units * 1000
	return &GranularResult{
		ProductID:   p.ProductID,
		ProductName: p.Name,
		Units:       units,
		SquareFeet:  squareFeet,
		Acres:       squareFeet / squareFeetPerAcre,
		TotalPounds: totalPounds,
		TotalBags:   totalBags,
	}, nil
}
