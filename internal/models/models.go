package models

import (
	"fmt"
	"math"
	"strconv"
)

// Brand identifies one of the storefronts served by the GPA backend
type Brand string

const (
	BrandPaoDeAcucar Brand = "pa"
	BrandClubeExtra  Brand = "ex"
)

// Valid reports whether the brand is known to the backend
func (b Brand) Valid() bool {
	return b == BrandPaoDeAcucar || b == BrandClubeExtra
}

// Envelope is the JSON wrapper returned by every GPA endpoint
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Content *T     `json:"content,omitempty"`
}

// Store represents a physical store in a brand's catalog
type Store struct {
	ID            int64  `json:"id"`
	StoreID       string `json:"store_id"`
	ERPCode       string `json:"erp_code"`
	Name          string `json:"name"`
	StoreName     string `json:"store_name"`
	Zip           string `json:"zip"`
	Street        string `json:"street"`
	AddressNumber string `json:"address_number"`
	Complement    string `json:"complement"`
	Neighborhood  string `json:"neighborhood"`
	City          string `json:"city"`
	State         string `json:"state"`
}

// Number returns the numeric store id used by the pricing endpoint
func (s Store) Number() (int64, error) {
	n, err := strconv.ParseInt(s.StoreID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid store_id %q: %w", s.StoreID, err)
	}
	return n, nil
}

// Label returns the display name of the store
func (s Store) Label() string {
	return fmt.Sprintf("%s – %s", s.ERPCode, s.Name)
}

// Address returns the single-line postal address of the store
func (s Store) Address() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		s.Street, s.AddressNumber, s.Neighborhood, s.City, s.State, s.Zip)
}

// Promotion is a time-boxed price reduction attached to a sell record
type Promotion struct {
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	UnitPrice         *float64 `json:"unitPrice"`
	PercentOffOnUnity *float64 `json:"promotionPercentOffOnUnity"`
	PercentOff        *float64 `json:"promotionPercentOff"`
	AppExclusive      bool     `json:"appExclusive"`
}

// SellRecord is one store's stock and price snapshot for a product
type SellRecord struct {
	StoreID       int64       `json:"storeId"`
	CurrentPrice  *float64    `json:"currentPrice"`
	SellPrice     *float64    `json:"sellPrice"`
	ValidOnStore  bool        `json:"validOnStore"`
	Stock         bool        `json:"stock"`
	StockQuantity *float64    `json:"stockQuantity"`
	Promotions    []Promotion `json:"productPromotions"`
}

// Product is the pricing endpoint payload
type Product struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	SellInfos []SellRecord `json:"sellInfos"`
}

// Price is a unit price where positive infinity means unavailable
type Price float64

// Unavailable is the price of a product no store can sell
var Unavailable = Price(math.Inf(1))

// IsAvailable reports whether the price is finite
func (p Price) IsAvailable() bool {
	return !math.IsInf(float64(p), 0) && !math.IsNaN(float64(p))
}

// MarshalJSON writes unavailable prices as null
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.IsAvailable() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

// UnmarshalJSON reads null back as Unavailable
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Unavailable
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	*p = Price(f)
	return nil
}

// OfferFlags are the presentation flags shared by store and final offers
type OfferFlags struct {
	ValidOnStore bool   `json:"validOnStore"`
	Promotion    bool   `json:"promotion"`
	AppExclusive *bool  `json:"appExclusive,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// StoreOffer is an offer still keyed by the numeric store id
type StoreOffer struct {
	StoreID int64 `json:"storeId"`
	OfferFlags
}

// StorePriceInfo is the cheapest price found at a single store
type StorePriceInfo struct {
	Name   string       `json:"name"`
	Price  Price        `json:"price"`
	Offers []StoreOffer `json:"offers"`
}

// StoreRef is the resolved store shown to users
type StoreRef struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Offer is a store offer resolved against the catalog
type Offer struct {
	Store StoreRef `json:"store"`
	OfferFlags
}

// BestPriceInfo is the cheapest price across all filtered stores
type BestPriceInfo struct {
	Price  Price   `json:"price"`
	Offers []Offer `json:"offers"`
}

// StoreResult is a store entry in a crawl result
type StoreResult struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Meta    OfferFlags `json:"meta"`
}

// CrawlResult is the record emitted per product per site
type CrawlResult struct {
	ID     string        `json:"id"`
	Price  Price         `json:"price"`
	Link   string        `json:"link"`
	Stores []StoreResult `json:"stores"`
}
