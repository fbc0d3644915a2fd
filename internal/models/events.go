package models

import "time"

// Event types
const (
	EventTypeBestPriceFound = "BEST_PRICE_FOUND"
	EventTypeCrawlFailed    = "CRAWL_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BestPriceFoundEvent published when a product/site task succeeds
type BestPriceFoundEvent struct {
	BaseEvent
	Site      string      `json:"site"`
	ProductID string      `json:"product_id"`
	Result    CrawlResult `json:"result"`
}

// CrawlFailedEvent published when a product/site task fails
type CrawlFailedEvent struct {
	BaseEvent
	Site      string `json:"site"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}
