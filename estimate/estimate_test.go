package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tntkiosk/models"
)

func testEstimator() *Estimator {
	products := []models.Product{
		{
			ProductID:         "product-3way",
			Name:              "Three-Way Broadleaf",
			HoseRatePerGallon: 2.0,
			CartRatePerGallon: 1.5,
		},
		{
			ProductID:         "product-no-rates",
			Name:              "Marker Dye",
			HoseRatePerGallon: 0,
			CartRatePerGallon: 0,
		},
	}
	return NewEstimator(products, []string{"1023", "1047"}, 75)
}

func TestReconstruct_DirectFieldsWin(t *testing.T) {
	est := testEstimator()

	// Direct fields must shadow every other signal present on the
	// record.
	rec := models.ActivityLog{
		UserCode:     "1023",
		TruckType:    models.TruckHose,
		Tank1Gallons: 120,
		Tank2Gallons: 80,
		Details:      "300 gallons",
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf", FrontTank: 100, BackTank: 100},
		},
	}

	got := est.Reconstruct(rec)

	assert.Equal(t, SourceDirect, got.Source)
	assert.False(t, got.Estimated)
	assert.InDelta(t, 120.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 80.0, got.Tank2Gallons, 1e-9)
	assert.InDelta(t, 200.0, got.Total(), 1e-9)
}

func TestReconstruct_ProductRateHose(t *testing.T) {
	rec := models.ActivityLog{
		TruckType: models.TruckHose,
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf", FrontTank: 200, BackTank: 100},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceRate, got.Source)
	assert.True(t, got.Estimated)
	assert.InDelta(t, 100.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 50.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_ProductRateCart(t *testing.T) {
	rec := models.ActivityLog{
		TruckType: models.TruckCart,
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf", DriverTank: 150, PassengerTank: 75},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceRate, got.Source)
	assert.InDelta(t, 100.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 50.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_ProductRateUnknownTruckPrefersHose(t *testing.T) {
	rec := models.ActivityLog{
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf", FrontTank: 200},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceRate, got.Source)
	assert.InDelta(t, 100.0, got.Tank1Gallons, 1e-9)
}

func TestReconstruct_ProductRateTotalOnlySplitsEvenly(t *testing.T) {
	rec := models.ActivityLog{
		TruckType: models.TruckHose,
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf", Total: 300},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceRate, got.Source)
	assert.InDelta(t, 75.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 75.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_UsableRateWithoutAmountsFallsThrough(t *testing.T) {
	// A known product with a rate but no amounts must not block the
	// later strategies.
	rec := models.ActivityLog{
		TruckType: models.TruckHose,
		Products: []models.ProductUsage{
			{Name: "Three-Way Broadleaf"},
		},
		Details: "80 gallons",
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceDetails, got.Source)
	assert.InDelta(t, 40.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 40.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_DetailsTankPairAuthoritative(t *testing.T) {
	rec := models.ActivityLog{
		Details: "Loaded Tank 1: 90.5 and tank 2: 45",
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceDetails, got.Source)
	assert.False(t, got.Estimated)
	assert.InDelta(t, 90.5, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 45.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_DetailsBareGallonsEstimated(t *testing.T) {
	rec := models.ActivityLog{Details: "refilled with 60 gallons total"}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceDetails, got.Source)
	assert.True(t, got.Estimated)
	assert.InDelta(t, 30.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 30.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_SiblingNestedTanks(t *testing.T) {
	rec := models.ActivityLog{
		Raw: map[string]interface{}{
			"tankGallons": map[string]interface{}{
				"tank1": 110.0,
				"tank2": 55.0,
			},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceSibling, got.Source)
	assert.True(t, got.Estimated)
	assert.InDelta(t, 110.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 55.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_SiblingBareNumberSplit(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"float", 90.0},
		{"int", 90},
		{"int64", int64(90)},
		{"string", "90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.ActivityLog{
				Raw: map[string]interface{}{"waterAmount": tt.value},
			}

			got := testEstimator().Reconstruct(rec)

			assert.Equal(t, SourceSibling, got.Source)
			assert.InDelta(t, 45.0, got.Tank1Gallons, 1e-9)
			assert.InDelta(t, 45.0, got.Tank2Gallons, 1e-9)
		})
	}
}

func TestReconstruct_ProductAmountsHeuristic(t *testing.T) {
	// 40 oz of an unknown product doubles to 80 gallons.
	rec := models.ActivityLog{
		Products: []models.ProductUsage{
			{Name: "Discontinued Blend", Total: 40},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceAmounts, got.Source)
	assert.True(t, got.Estimated)
	assert.InDelta(t, 40.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 40.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_ProductAmountsFloor(t *testing.T) {
	// 10 oz doubles to 20, below the 50 gallon floor.
	rec := models.ActivityLog{
		Products: []models.ProductUsage{
			{Name: "Discontinued Blend", Total: 10},
		},
	}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceAmounts, got.Source)
	assert.InDelta(t, 25.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 25.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_FallbackCodes(t *testing.T) {
	rec := models.ActivityLog{UserCode: "1047"}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceFallback, got.Source)
	assert.True(t, got.Estimated)
	assert.InDelta(t, 75.0, got.Tank1Gallons, 1e-9)
	assert.InDelta(t, 75.0, got.Tank2Gallons, 1e-9)
}

func TestReconstruct_NothingRecoverable(t *testing.T) {
	rec := models.ActivityLog{UserCode: "5555"}

	got := testEstimator().Reconstruct(rec)

	assert.Equal(t, SourceNone, got.Source)
	assert.True(t, got.Estimated)
	assert.Zero(t, got.Total())
}

func TestAggregateByUser(t *testing.T) {
	est := testEstimator()
	records := []models.ActivityLog{
		{UserCode: "1002", Tank1Gallons: 100, Tank2Gallons: 50},
		{UserCode: "1002", Details: "40 gallons"},
		{UserCode: "1001", Tank1Gallons: 60, Tank2Gallons: 60},
	}

	totals := est.AggregateByUser(records)

	require.Len(t, totals, 2)
	// Sorted by user code.
	assert.Equal(t, "1001", totals[0].UserCode)
	assert.Equal(t, "1002", totals[1].UserCode)

	assert.Equal(t, 1, totals[0].Records)
	assert.InDelta(t, 120.0, totals[0].TotalGallons, 1e-9)
	assert.True(t, totals[0].HasAuthoritative)
	assert.False(t, totals[0].HasEstimated)

	assert.Equal(t, 2, totals[1].Records)
	assert.InDelta(t, 120.0, totals[1].Tank1Gallons, 1e-9)
	assert.InDelta(t, 70.0, totals[1].Tank2Gallons, 1e-9)
	assert.InDelta(t, 190.0, totals[1].TotalGallons, 1e-9)
	assert.True(t, totals[1].HasAuthoritative)
	assert.True(t, totals[1].HasEstimated)
}

func TestAggregateByUser_Empty(t *testing.T) {
	totals := testEstimator().AggregateByUser(nil)
	assert.Empty(t, totals)
}
