package gpa

import (
	"context"
	"fmt"

	"price-crawler/internal/models"
	"price-crawler/internal/util"

	"go.uber.org/zap"
)

const catalogPath = "/v2/delivery/ecom/driveThru"

// ListStores returns the brand's physical stores. A catalog the backend
// does not know is empty, not an error.
func (c *Client) ListStores(ctx context.Context, brand models.Brand) (stores []models.Store, err error) {
	ctx, span := util.StartSpan(ctx, "gpa.Client.ListStores",
		util.AttrBrand.String(string(brand)))
	defer func() { util.EndSpan(span, err) }()

	result, err := fetch[[]models.Store](ctx, c, brand, catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	stores = result.OrElse([]models.Store{})
	c.logger.Debug("Store catalog loaded",
		zap.String("brand", string(brand)),
		zap.Int("count", len(stores)),
		zap.Bool("found", result.IsFound()))

	return stores, nil
}

// StoreFilter selects the stores a query should consider
type StoreFilter func(store models.Store) bool

// StateFilter keeps stores located in the given state
func StateFilter(state string) StoreFilter {
	return func(store models.Store) bool {
		return store.State == state
	}
}

func filterStores(stores []models.Store, keep StoreFilter) []models.Store {
	if keep == nil {
		return stores
	}
	filtered := make([]models.Store, 0, len(stores))
	for _, store := range stores {
		if keep(store) {
			filtered = append(filtered, store)
		}
	}
	return filtered
}
