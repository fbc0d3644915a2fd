package broker

import (
	"context"
	"fmt"

	"price-crawler/internal/models"
)

// Publisher announces the outcome of crawl tasks
type Publisher interface {
	PublishBestPriceFound(ctx context.Context, event *models.BestPriceFoundEvent) error
	PublishCrawlFailed(ctx context.Context, event *models.CrawlFailedEvent) error
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBestPriceFound publishes BestPriceFound event keyed by product
func (ep *EventPublisher) PublishBestPriceFound(ctx context.Context, event *models.BestPriceFoundEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.Result.ID), event)
}

// PublishCrawlFailed publishes CrawlFailed event keyed by site
func (ep *EventPublisher) PublishCrawlFailed(ctx context.Context, event *models.CrawlFailedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("site-%s", event.Site), event)
}

func productKey(id string) string {
	return fmt.Sprintf("product-%s", id)
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishBestPriceFound(context.Context, *models.BestPriceFoundEvent) error {
	return nil
}

func (NopPublisher) PublishCrawlFailed(context.Context, *models.CrawlFailedEvent) error {
	return nil
}
