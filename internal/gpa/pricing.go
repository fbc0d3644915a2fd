package gpa

import (
	"context"
	"fmt"

	"price-crawler/internal/models"
	"price-crawler/internal/util"
)

const (
	productPricePath = "/v4/products/ecom/%d/bestPrices?storeId=%d&sellType=&isClienteMais=true"

	// OutOfStockName names the price info of a product a store does not carry
	OutOfStockName = "out-of-stock"
)

// OutOfStock is the price info of a product the backend does not know
// at a store.
func OutOfStock() models.StorePriceInfo {
	return models.StorePriceInfo{
		Name:   OutOfStockName,
		Price:  models.Unavailable,
		Offers: []models.StoreOffer{},
	}
}

// GetStoreBestPrice returns the cheapest offers for a product at one store
func (c *Client) GetStoreBestPrice(ctx context.Context, brand models.Brand, storeID, productID int64) (info models.StorePriceInfo, err error) {
	ctx, span := util.StartSpan(ctx, "gpa.Client.GetStoreBestPrice",
		util.AttrBrand.String(string(brand)),
		util.AttrStoreID.Int64(storeID),
		util.AttrProductID.Int64(productID))
	defer func() { util.EndSpan(span, err) }()

	if productID <= 0 {
		return models.StorePriceInfo{}, fmt.Errorf("%w: product id must be positive, got %d", ErrMalformedInput, productID)
	}
	if storeID <= 0 {
		return models.StorePriceInfo{}, fmt.Errorf("%w: store id must be positive, got %d", ErrMalformedInput, storeID)
	}

	util.StoresQueriedTotal.WithLabelValues(string(brand)).Inc()

	result, err := fetch[models.Product](ctx, c, brand, fmt.Sprintf(productPricePath, productID, storeID))
	if err != nil {
		return models.StorePriceInfo{}, fmt.Errorf("failed to get price at store %d: %w", storeID, err)
	}

	product, ok := result.Get()
	if !ok {
		return OutOfStock(), nil
	}

	if product.ID != productID {
		return models.StorePriceInfo{}, fmt.Errorf("%w: mismatch of product id: requested %d, got %d",
			ErrIntegrityViolation, productID, product.ID)
	}

	selection, err := SelectBestOffers(product.SellInfos)
	if err != nil {
		return models.StorePriceInfo{}, fmt.Errorf("failed to select offers at store %d: %w", storeID, err)
	}

	return models.StorePriceInfo{
		Name:   product.Name,
		Price:  selection.Price,
		Offers: selection.Offers,
	}, nil
}
