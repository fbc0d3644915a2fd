package gpa

import (
	"fmt"

	"price-crawler/internal/models"
)

// Selection is the cheapest purchasable price among a set of sell
// records and the offers tied at it.
type Selection struct {
	Price  models.Price
	Offers []models.StoreOffer
}

type candidate struct {
	record    *models.SellRecord
	promotion *models.Promotion
}

// SelectBestOffers reduces sell records to their cheapest valid offers.
//
// Records out of stock or with a zero stock quantity are skipped. A
// record's price is the lowest promotion unit price, else its current
// price, else its sell price.
// Records are scanned in order: a lower price starts a new tie list, an
// equal price joins it. The price is Unavailable when nothing is left.
// The input is never modified.
func SelectBestOffers(records []models.SellRecord) (Selection, error) {
	best := models.Unavailable
	var tied []candidate

	for i := range records {
		record := &records[i]

		if !record.Stock {
			continue
		}
		// an unknown quantity is not an empty shelf
		if record.StockQuantity != nil && *record.StockQuantity == 0 {
			continue
		}

		promotion, err := cheapestPromotion(record)
		if err != nil {
			return Selection{}, err
		}

		price, err := candidatePrice(record, promotion)
		if err != nil {
			return Selection{}, err
		}

		switch {
		case price < best:
			best = price
			tied = []candidate{{record: record, promotion: promotion}}
		case price == best:
			tied = append(tied, candidate{record: record, promotion: promotion})
		}
	}

	offers := make([]models.StoreOffer, 0, len(tied))
	for _, c := range tied {
		offers = append(offers, toStoreOffer(c))
	}

	return Selection{Price: best, Offers: offers}, nil
}

// cheapestPromotion keeps the first promotion on equal unit prices
func cheapestPromotion(record *models.SellRecord) (*models.Promotion, error) {
	var best *models.Promotion
	for i := range record.Promotions {
		current := &record.Promotions[i]
		if current.UnitPrice == nil {
			return nil, fmt.Errorf("%w: promotion for store %d has no unitPrice",
				ErrMalformedInput, record.StoreID)
		}
		if best == nil || *best.UnitPrice > *current.UnitPrice {
			best = current
		}
	}
	return best, nil
}

func candidatePrice(record *models.SellRecord, promotion *models.Promotion) (models.Price, error) {
	switch {
	case promotion != nil:
		return models.Price(*promotion.UnitPrice), nil
	case record.CurrentPrice != nil:
		return models.Price(*record.CurrentPrice), nil
	case record.SellPrice != nil:
		return models.Price(*record.SellPrice), nil
	}
	return 0, fmt.Errorf("%w: sell record for store %d has neither currentPrice nor sellPrice",
		ErrMalformedInput, record.StoreID)
}

func toStoreOffer(c candidate) models.StoreOffer {
	offer := models.StoreOffer{
		StoreID: c.record.StoreID,
		OfferFlags: models.OfferFlags{
			ValidOnStore: c.record.ValidOnStore,
		},
	}
	if c.promotion == nil {
		return offer
	}

	appExclusive := c.promotion.AppExclusive
	offer.Promotion = true
	offer.AppExclusive = &appExclusive
	offer.StartDate = c.promotion.StartDate
	offer.EndDate = c.promotion.EndDate
	return offer
}
