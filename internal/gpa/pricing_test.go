package gpa

import (
	"context"
	"testing"

	"price-crawler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStoreBestPrice(t *testing.T) {
	ctx := context.Background()
	brand := models.BrandPaoDeAcucar

	t.Run("selects the cheapest offer of the store", func(t *testing.T) {
		fake := newFakeGPA(t)
		fake.success(priceURI(brand, 555, 101), product(555, "LEITE INTEGRAL 1L",
			inStock(101, 4, 5.49),
			inStock(101, 2, 4.99, promo(4.59, true)),
		))

		info, err := fake.client().GetStoreBestPrice(ctx, brand, 101, 555)

		require.NoError(t, err)
		assert.Equal(t, "LEITE INTEGRAL 1L", info.Name)
		assert.Equal(t, models.Price(4.59), info.Price)
		require.Len(t, info.Offers, 1)
		assert.True(t, info.Offers[0].Promotion)
	})

	t.Run("not found is the out-of-stock sentinel", func(t *testing.T) {
		fake := newFakeGPA(t)

		info, err := fake.client().GetStoreBestPrice(ctx, brand, 101, 555)

		require.NoError(t, err)
		assert.Equal(t, OutOfStock(), info)
		assert.Equal(t, OutOfStockName, info.Name)
		assert.False(t, info.Price.IsAvailable())
	})

	t.Run("product id mismatch is an integrity violation", func(t *testing.T) {
		fake := newFakeGPA(t)
		fake.success(priceURI(brand, 555, 101), product(556, "OUTRO", inStock(101, 1, 1)))

		_, err := fake.client().GetStoreBestPrice(ctx, brand, 101, 555)

		assert.ErrorIs(t, err, ErrIntegrityViolation)
	})

	t.Run("malformed sell record fails", func(t *testing.T) {
		record := inStock(101, 1, 1)
		record.CurrentPrice = nil
		record.SellPrice = nil
		fake := newFakeGPA(t)
		fake.success(priceURI(brand, 555, 101), product(555, "LEITE", record))

		_, err := fake.client().GetStoreBestPrice(ctx, brand, 101, 555)

		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("backend failure propagates", func(t *testing.T) {
		fake := newFakeGPA(t)
		fake.handle(priceURI(brand, 555, 101), `{"status":"error","message":"boom","code":500}`)

		_, err := fake.client().GetStoreBestPrice(ctx, brand, 101, 555)

		assert.ErrorIs(t, err, ErrBackendFailure)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("identifiers must be positive", func(t *testing.T) {
		fake := newFakeGPA(t)
		client := fake.client()

		_, err := client.GetStoreBestPrice(ctx, brand, 101, 0)
		assert.ErrorIs(t, err, ErrMalformedInput)

		_, err = client.GetStoreBestPrice(ctx, brand, -1, 555)
		assert.ErrorIs(t, err, ErrMalformedInput)

		assert.Zero(t, fake.hitCount(priceURI(brand, 0, 101)))
	})
}
