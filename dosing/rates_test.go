package dosing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tntkiosk/models"
)

func TestRateFor(t *testing.T) {
	line := models.RecipeLine{
		HoseRate:     1.1,
		CartRate:     1.5,
		TrailerRate:  0,
		BackpackRate: -2,
	}

	tests := []struct {
		name      string
		equipment models.EquipmentType
		wantRate  float64
		wantOK    bool
	}{
		{"hose truck", models.EquipmentHoseTruck, 1.1, true},
		{"cart truck", models.EquipmentCartTruck, 1.5, true},
		{"trailer rate zero", models.EquipmentTrailer, 0, false},
		{"backpack rate negative", models.EquipmentBackpack, 0, false},
		{"unknown equipment", models.EquipmentType("mower"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := RateFor(line, tt.equipment)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRate, rate)
		})
	}
}

func TestValidEquipmentTypes_OnlyCartRate(t *testing.T) {
	line := models.RecipeLine{HoseRate: 0, CartRate: 1.5, TrailerRate: 0, BackpackRate: 0}

	valid := ValidEquipmentTypes(line)

	assert.Equal(t, []models.EquipmentType{models.EquipmentCartTruck}, valid)
}

func TestValidEquipmentTypes_AllRates(t *testing.T) {
	line := models.RecipeLine{HoseRate: 1, CartRate: 1, TrailerRate: 1, BackpackRate: 1}

	valid := ValidEquipmentTypes(line)

	require.Len(t, valid, 4)
	assert.Equal(t, []models.EquipmentType{
		models.EquipmentHoseTruck,
		models.EquipmentTrailer,
		models.EquipmentCartTruck,
		models.EquipmentBackpack,
	}, valid)
}

func TestValidEquipmentTypes_NoRates(t *testing.T) {
	assert.Empty(t, ValidEquipmentTypes(models.RecipeLine{}))
}

func TestNormalizeEquipmentTypes_FiltersStoredList(t *testing.T) {
	// hose-truck was configured but its rate has since been zeroed;
	// only the still-valid cart-truck survives.
	line := models.RecipeLine{
		CartRate: 1.5,
		EquipmentTypes: []models.EquipmentType{
			models.EquipmentHoseTruck,
			models.EquipmentCartTruck,
		},
	}

	got := NormalizeEquipmentTypes(line)

	assert.Equal(t, []models.EquipmentType{models.EquipmentCartTruck}, got)
}

func TestNormalizeEquipmentTypes_StoredListAllInvalid(t *testing.T) {
	line := models.RecipeLine{
		EquipmentTypes: []models.EquipmentType{models.EquipmentHoseTruck},
	}

	got := NormalizeEquipmentTypes(line)

	assert.Equal(t, []models.EquipmentType{
		models.EquipmentCartTruck,
		models.EquipmentBackpack,
	}, got)
}

func TestNormalizeEquipmentTypes_LegacyTruckTypes(t *testing.T) {
	tests := []struct {
		name string
		line models.RecipeLine
		want []models.EquipmentType
	}{
		{
			name: "hose expands to hose-truck and trailer",
			line: models.RecipeLine{
				HoseRate:    1.1,
				TrailerRate: 1.1,
				TruckTypes:  []models.TruckType{models.TruckHose},
			},
			want: []models.EquipmentType{models.EquipmentHoseTruck, models.EquipmentTrailer},
		},
		{
			name: "cart expands to cart-truck and backpack",
			line: models.RecipeLine{
				CartRate:     1.5,
				BackpackRate: 2.0,
				TruckTypes:   []models.TruckType{models.TruckCart},
			},
			want: []models.EquipmentType{models.EquipmentCartTruck, models.EquipmentBackpack},
		},
		{
			name: "expansion still intersects with valid rates",
			line: models.RecipeLine{
				HoseRate:   1.1, // trailer rate missing
				TruckTypes: []models.TruckType{models.TruckHose},
			},
			want: []models.EquipmentType{models.EquipmentHoseTruck},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEquipmentTypes(tt.line))
		})
	}
}

func TestNormalizeEquipmentTypes_InferredFromRates(t *testing.T) {
	line := models.RecipeLine{HoseRate: 1.1, TrailerRate: 0.2, CartRate: 1.5}

	got := NormalizeEquipmentTypes(line)

	// hoseRate>0 contributes hose-truck+trailer, cartRate>0
	// contributes cart-truck; backpack has no rate and no candidate.
	assert.Equal(t, []models.EquipmentType{
		models.EquipmentHoseTruck,
		models.EquipmentTrailer,
		models.EquipmentCartTruck,
	}, got)
}

func TestNormalizeEquipmentTypes_NothingRecoverableDefaults(t *testing.T) {
	got := NormalizeEquipmentTypes(models.RecipeLine{})

	assert.Equal(t, []models.EquipmentType{
		models.EquipmentCartTruck,
		models.EquipmentBackpack,
	}, got)
}

func TestEquipmentTypesForProduct_FreshAddDefault(t *testing.T) {
	// The fresh-add call site falls back to cart-truck only, unlike
	// recipe-line migration.
	got := EquipmentTypesForProduct(models.Product{Name: "No Rates Yet"})

	assert.Equal(t, []models.EquipmentType{models.EquipmentCartTruck}, got)
}

func TestEquipmentTypesForProduct_InferredFromRates(t *testing.T) {
	product := models.Product{
		Name:                  "Bifenthrin 7.9",
		CartRatePerGallon:     0.5,
		BackpackRatePerGallon: 1.0,
	}

	got := EquipmentTypesForProduct(product)

	assert.Equal(t, []models.EquipmentType{
		models.EquipmentCartTruck,
		models.EquipmentBackpack,
	}, got)
}
