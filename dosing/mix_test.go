package dosing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tntkiosk/models"
)

func testApplication() *models.Application {
	return &models.Application{
		ApplicationID: "app-1",
		Name:          "Spring Round",
		IsActive:      true,
		IsDefault:     true,
		Products: []models.RecipeLine{
			{ProductID: "p1", ProductName: "Three-Way", HoseRate: 2.0, CartRate: 1.5, Unit: "oz"},
			{ProductID: "p2", ProductName: "Sticker", HoseRate: 0.5, Unit: "oz"},
		},
	}
}

func TestComputeMix_HoseTruck(t *testing.T) {
	result, err := ComputeMix(testApplication(), models.TruckHose, 10, 5)
	require.NoError(t, err)

	assert.Equal(t, "Front", result.Tank1Label)
	assert.Equal(t, "Back", result.Tank2Label)
	require.Len(t, result.Lines, 2)

	assert.InDelta(t, 20.0, result.Lines[0].Tank1Ounces, 1e-9)
	assert.InDelta(t, 10.0, result.Lines[0].Tank2Ounces, 1e-9)
	assert.InDelta(t, 30.0, result.Lines[0].TotalOunces, 1e-9)

	assert.InDelta(t, 5.0, result.Lines[1].Tank1Ounces, 1e-9)
	assert.InDelta(t, 2.5, result.Lines[1].Tank2Ounces, 1e-9)
	assert.InDelta(t, 7.5, result.Lines[1].TotalOunces, 1e-9)
}

func TestComputeMix_CartSkipsLinesWithoutCartRate(t *testing.T) {
	result, err := ComputeMix(testApplication(), models.TruckCart, 50, 50)
	require.NoError(t, err)

	assert.Equal(t, "Driver", result.Tank1Label)
	assert.Equal(t, "Passenger", result.Tank2Label)
	// The sticker line has no cart rate and must not appear as a
	// zero-ounce dose.
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "p1", result.Lines[0].ProductID)
	assert.InDelta(t, 75.0, result.Lines[0].Tank1Ounces, 1e-9)
	assert.InDelta(t, 150.0, result.Lines[0].TotalOunces, 1e-9)
}

func TestComputeMix_SingleTank(t *testing.T) {
	result, err := ComputeMix(testApplication(), models.TruckHose, 0, 100)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.Lines[0].Tank1Ounces, 1e-9)
	assert.InDelta(t, 200.0, result.Lines[0].Tank2Ounces, 1e-9)
	assert.InDelta(t, 200.0, result.Lines[0].TotalOunces, 1e-9)
}

func TestComputeMix_TotalCommutesAcrossTanks(t *testing.T) {
	a, err := ComputeMix(testApplication(), models.TruckHose, 10, 5)
	require.NoError(t, err)
	b, err := ComputeMix(testApplication(), models.TruckHose, 5, 10)
	require.NoError(t, err)

	assert.InDelta(t, a.Lines[0].TotalOunces, b.Lines[0].TotalOunces, 1e-9)
}

func TestComputeMix_Deterministic(t *testing.T) {
	first, err := ComputeMix(testApplication(), models.TruckCart, 35.5, 40.25)
	require.NoError(t, err)
	second, err := ComputeMix(testApplication(), models.TruckCart, 35.5, 40.25)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeMix_Guards(t *testing.T) {
	tests := []struct {
		name    string
		app     *models.Application
		truck   models.TruckType
		tank1   float64
		tank2   float64
		wantErr error
	}{
		{"nil application", nil, models.TruckHose, 10, 5, ErrNoDefaultApplication},
		{"unknown truck type", testApplication(), models.TruckType("trailer"), 10, 5, ErrUnknownTruckType},
		{"negative volume", testApplication(), models.TruckHose, -1, 5, ErrInvalidVolume},
		{"both tanks zero", testApplication(), models.TruckHose, 0, 0, ErrNoTankVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeMix(tt.app, tt.truck, tt.tank1, tt.tank2)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeMix_NoApplicableRates(t *testing.T) {
	app := &models.Application{
		Products: []models.RecipeLine{
			{ProductID: "p2", ProductName: "Hose Only", HoseRate: 0.5},
		},
	}

	result, err := ComputeMix(app, models.TruckCart, 10, 5)

	// "Not offered on this truck" must be an explicit condition, not
	// an empty or zero-dose result.
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTankLabels(t *testing.T) {
	front, back := TankLabels(models.TruckHose)
	assert.Equal(t, "Front", front)
	assert.Equal(t, "Back", back)

	driver, passenger := TankLabels(models.TruckCart)
	assert.Equal(t, "Driver", driver)
	assert.Equal(t, "Passenger", passenger)
}

func TestResolveDefault(t *testing.T) {
	apps := []models.Application{
		{ApplicationID: "a", IsActive: true},
		{ApplicationID: "b", IsActive: true, IsDefault: true},
		{ApplicationID: "c", IsActive: false, IsDefault: true},
	}

	app, ambiguous, err := ResolveDefault(apps)
	require.NoError(t, err)
	assert.Equal(t, "b", app.ApplicationID)
	assert.False(t, ambiguous)
}

func TestResolveDefault_MultipleDefaults(t *testing.T) {
	apps := []models.Application{
		{ApplicationID: "a", IsActive: true, IsDefault: true},
		{ApplicationID: "b", IsActive: true, IsDefault: true},
	}

	app, ambiguous, err := ResolveDefault(apps)
	require.NoError(t, err)
	// Deterministic first-match, with the inconsistency reported.
	assert.Equal(t, "a", app.ApplicationID)
	assert.True(t, ambiguous)
}

func TestResolveDefault_NoneConfigured(t *testing.T) {
	apps := []models.Application{
		{ApplicationID: "a", IsActive: true},
		{ApplicationID: "b", IsActive: false, IsDefault: true},
	}

	app, ambiguous, err := ResolveDefault(apps)
	assert.Nil(t, app)
	assert.False(t, ambiguous)
	assert.ErrorIs(t, err, ErrNoDefaultApplication)
}
