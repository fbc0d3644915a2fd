package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"price-crawler/internal/cache"
	"price-crawler/internal/gpa"
	"price-crawler/internal/models"
	"price-crawler/internal/registry"
	"price-crawler/internal/util"

	"go.uber.org/zap"
)

// CrawlService turns a product on a site into a crawl result
type CrawlService struct {
	client     *gpa.Client
	registry   *registry.Registry
	storeState string
	logger     *zap.Logger
}

// NewCrawlService creates a new crawl service. Only stores located in
// storeState are considered.
func NewCrawlService(client *gpa.Client, registry *registry.Registry, storeState string) *CrawlService {
	return &CrawlService{
		client:     client,
		registry:   registry,
		storeState: storeState,
		logger:     util.GetLogger(),
	}
}

// ForRun returns a service whose GPA responses are cached in responses
func (s *CrawlService) ForRun(responses cache.Cache) *CrawlService {
	clone := *s
	clone.client = s.client.WithCache(responses)
	return &clone
}

// CrawlRequest is one product on one site
type CrawlRequest struct {
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Site      string   `json:"site"`
	ProductID string   `json:"product_id"`
}

// NoResult is the record of a product on a site nobody can crawl
func NoResult(id string) *models.CrawlResult {
	return &models.CrawlResult{
		ID:     id,
		Price:  models.Unavailable,
		Link:   "none",
		Stores: []models.StoreResult{},
	}
}

// Crawl finds the best offers for a product on a site
func (s *CrawlService) Crawl(ctx context.Context, req CrawlRequest) (result *models.CrawlResult, err error) {
	ctx, span := util.StartSpan(ctx, "CrawlService.Crawl",
		util.AttrSite.String(req.Site))
	defer func() { util.EndSpan(span, err) }()

	id := s.registry.ID(req.Name)

	site, ok := LookupSite(req.Site)
	if !ok {
		s.logger.Warn("No crawler for site",
			zap.String("site", req.Site),
			zap.String("name", req.Name))
		return NoResult(id), nil
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(req.ProductID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id %q for %s", gpa.ErrMalformedInput, req.ProductID, site.Name)
	}

	info, err := s.client.GetBestPriceInfo(ctx, gpa.BestPriceQuery{
		Brand:       site.Brand,
		ProductID:   productID,
		Keywords:    req.Keywords,
		StoreFilter: gpa.StateFilter(s.storeState),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to crawl %s product %d: %w", site.Name, productID, err)
	}

	stores := make([]models.StoreResult, 0, len(info.Offers))
	for _, offer := range info.Offers {
		stores = append(stores, models.StoreResult{
			Name:    offer.Store.Name,
			Address: offer.Store.Address,
			Meta:    offer.OfferFlags,
		})
	}

	s.logger.Info("Product crawled",
		zap.String("site", site.Name),
		zap.Int64("product_id", productID),
		zap.String("name", req.Name),
		zap.Int("stores", len(stores)))

	return &models.CrawlResult{
		ID:     id,
		Price:  info.Price,
		Link:   site.Link(strconv.FormatInt(productID, 10)),
		Stores: stores,
	}, nil
}
