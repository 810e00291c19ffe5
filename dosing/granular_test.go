package dosing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tntkiosk/models"
)

func granularProduct() *models.Product {
	return &models.Product{
		ProductID:         "product-24-0-11",
		Name:              "24-0-11 Granular",
		Category:          models.CategoryFertilizer,
		PoundsPer1000SqFt: 3.0,
		PoundsPerBag:      50,
		IsActive:          true,
	}
}

func TestComputeGranular(t *testing.T) {
	// 10 units = 10,000 sq ft at 3 lbs per 1000 sq ft.
	result, err := ComputeGranular(granularProduct(), 10)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, result.TotalPounds, 1e-9)
	assert.Equal(t, 1, result.TotalBags)
	assert.InDelta(t, 10000.0, result.SquareFeet, 1e-9)
	assert.InDelta(t, 0.2296, result.Acres, 1e-4)
}

func TestComputeGranular_BagCountRoundsUp(t *testing.T) {
	// 25 units * 3 lbs = 75 lbs = 1.5 bags, which means opening a
	// second bag.
	result, err := ComputeGranular(granularProduct(), 25)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, result.TotalPounds, 1e-9)
	assert.Equal(t, 2, result.TotalBags)
}

func TestComputeGranular_ExactBagBoundary(t *testing.T) {
	result, err := ComputeGranular(granularProduct(), 50)
	require.NoError(t, err)

	assert.InDelta(t, 150.0, result.TotalPounds, 1e-9)
	assert.Equal(t, 3, result.TotalBags)
}

func TestComputeGranular_NoBagWeight(t *testing.T) {
	product := granularProduct()
	product.PoundsPerBag = 0

	result, err := ComputeGranular(product, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalBags)
	assert.InDelta(t, 30.0, result.TotalPounds, 1e-9)
}

func TestComputeGranular_AcreRoundTrip(t *testing.T) {
	// 43.56 units = 43,560 sq ft = exactly one acre.
	result, err := ComputeGranular(granularProduct(), 43.56)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Acres, 1e-9)
}

func TestComputeGranular_Guards(t *testing.T) {
	result, err := ComputeGranular(nil, 10)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoProduct)

	result, err = ComputeGranular(granularProduct(), 0)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidArea)

	result, err = ComputeGranular(granularProduct(), -4)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidArea)
}
