package gpa

import (
	"context"
	"fmt"
	"strings"

	"price-crawler/internal/models"
	"price-crawler/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BestPriceQuery describes one product on one brand
type BestPriceQuery struct {
	Brand       models.Brand
	ProductID   int64
	Keywords    []string
	StoreFilter StoreFilter
}

// GetBestPriceInfo finds the lowest price of a product across the
// brand's filtered stores and every offer tied at it.
//
// Stores are queried concurrently; any failure aborts the query. Store
// results whose product name lacks one of the keywords are ignored.
func (c *Client) GetBestPriceInfo(ctx context.Context, query BestPriceQuery) (info models.BestPriceInfo, err error) {
	ctx, span := util.StartSpan(ctx, "gpa.Client.GetBestPriceInfo",
		util.AttrBrand.String(string(query.Brand)),
		util.AttrProductID.Int64(query.ProductID))
	defer func() { util.EndSpan(span, err) }()

	stores, err := c.ListStores(ctx, query.Brand)
	if err != nil {
		return models.BestPriceInfo{}, err
	}
	stores = filterStores(stores, query.StoreFilter)

	storeIDs := make([]int64, len(stores))
	for i, store := range stores {
		id, err := store.Number()
		if err != nil {
			return models.BestPriceInfo{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		storeIDs[i] = id
	}

	priceByStore, err := c.priceByStore(ctx, query.Brand, query.ProductID, storeIDs)
	if err != nil {
		return models.BestPriceInfo{}, err
	}

	best := reduceStorePrices(priceByStore, query.Keywords)

	offers, err := resolveOffers(best.Offers, stores, storeIDs)
	if err != nil {
		return models.BestPriceInfo{}, err
	}

	c.logger.Debug("Best price resolved",
		zap.String("brand", string(query.Brand)),
		zap.Int64("product_id", query.ProductID),
		zap.Int("stores", len(stores)),
		zap.Int("offers", len(offers)),
		zap.Bool("available", best.Price.IsAvailable()))

	return models.BestPriceInfo{Price: best.Price, Offers: offers}, nil
}

// priceByStore returns results in storeIDs order
func (c *Client) priceByStore(ctx context.Context, brand models.Brand, productID int64, storeIDs []int64) ([]models.StorePriceInfo, error) {
	results := make([]models.StorePriceInfo, len(storeIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, storeID := range storeIDs {
		i, storeID := i, storeID
		g.Go(func() error {
			info, err := c.GetStoreBestPrice(gctx, brand, storeID, productID)
			if err != nil {
				return err
			}
			results[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// reduceStorePrices keeps the minimum price and accumulates the offers
// of every store tied at it, in store order.
func reduceStorePrices(results []models.StorePriceInfo, keywords []string) models.StorePriceInfo {
	best := models.StorePriceInfo{
		Name:   "UNAVAILABLE",
		Price:  models.Unavailable,
		Offers: []models.StoreOffer{},
	}

	for _, current := range results {
		if !ContainsAllKeywords(current.Name, keywords) {
			continue
		}
		switch {
		case current.Price < best.Price:
			best = models.StorePriceInfo{
				Name:   current.Name,
				Price:  current.Price,
				Offers: append(make([]models.StoreOffer, 0, len(current.Offers)), current.Offers...),
			}
		case current.Price == best.Price:
			best.Offers = append(best.Offers, current.Offers...)
		}
	}

	return best
}

func resolveOffers(storeOffers []models.StoreOffer, stores []models.Store, storeIDs []int64) ([]models.Offer, error) {
	byID := make(map[int64]models.Store, len(stores))
	for i, id := range storeIDs {
		if _, ok := byID[id]; !ok {
			byID[id] = stores[i]
		}
	}

	offers := make([]models.Offer, 0, len(storeOffers))
	for _, o := range storeOffers {
		store, ok := byID[o.StoreID]
		if !ok {
			return nil, fmt.Errorf("%w: missing store info for store %d", ErrIntegrityViolation, o.StoreID)
		}
		offers = append(offers, models.Offer{
			Store: models.StoreRef{
				Name:    store.Label(),
				Address: store.Address(),
			},
			OfferFlags: o.OfferFlags,
		})
	}
	return offers, nil
}

// ContainsAllKeywords reports whether every keyword occurs in name,
// ignoring case.
func ContainsAllKeywords(name string, keywords []string) bool {
	upper := strings.ToUpper(name)
	for _, keyword := range keywords {
		if !strings.Contains(upper, strings.ToUpper(keyword)) {
			return false
		}
	}
	return true
}
