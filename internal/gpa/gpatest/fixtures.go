package gpatest

import "price-crawler/internal/models"

func F64(v float64) *float64 { return &v }

// Store builds a catalog entry; its label is "E<storeID> – Loja <storeID>"
func Store(storeID, state string) models.Store {
	return models.Store{
		ID:            1000,
		StoreID:       storeID,
		ERPCode:       "E" + storeID,
		Name:          "Loja " + storeID,
		Zip:           "70000-000",
		Street:        "SHCS CLS 100",
		AddressNumber: storeID,
		Neighborhood:  "Asa Sul",
		City:          "Brasília",
		State:         state,
	}
}

// InStock builds a valid, stocked sell record
func InStock(storeID int64, qty, currentPrice float64, promotions ...models.Promotion) models.SellRecord {
	return models.SellRecord{
		StoreID:       storeID,
		CurrentPrice:  F64(currentPrice),
		SellPrice:     F64(currentPrice),
		ValidOnStore:  true,
		Stock:         true,
		StockQuantity: F64(qty),
		Promotions:    promotions,
	}
}

func Promo(unitPrice float64, appExclusive bool) models.Promotion {
	return models.Promotion{
		StartDate:    "2021-01-14T00:00:00",
		EndDate:      "2021-01-17T23:59:00",
		UnitPrice:    F64(unitPrice),
		PercentOff:   F64(40),
		AppExclusive: appExclusive,
	}
}

func Product(id int64, name string, records ...models.SellRecord) models.Product {
	if records == nil {
		records = []models.SellRecord{}
	}
	return models.Product{ID: id, Name: name, SellInfos: records}
}
