package service

import (
	"context"
	"testing"
	"time"

	"price-crawler/internal/cache"
	"price-crawler/internal/gpa"
	"price-crawler/internal/gpa/gpatest"
	"price-crawler/internal/models"
	"price-crawler/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*CrawlService, *gpatest.Server) {
	fake := gpatest.NewServer(t)
	client := gpa.NewClient(fake.URL(), cache.NewMemoryCache(), 5*time.Second, false)
	return NewCrawlService(client, registry.New(), "DF"), fake
}

func TestCrawlService_Crawl(t *testing.T) {
	t.Run("unknown site yields no result", func(t *testing.T) {
		svc, _ := newTestService(t)

		result, err := svc.Crawl(context.Background(), CrawlRequest{
			Name: "Leite", Site: "example.com", ProductID: "1",
		})

		require.NoError(t, err)
		assert.Equal(t, registry.Hash("Leite"), result.ID)
		assert.Equal(t, "none", result.Link)
		assert.False(t, result.Price.IsAvailable())
		assert.Empty(t, result.Stores)
	})

	t.Run("invalid product id", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Crawl(context.Background(), CrawlRequest{
			Name: "Leite", Site: "paodeacucar.com", ProductID: "abc",
		})

		assert.ErrorIs(t, err, gpa.ErrMalformedInput)
	})

	t.Run("best offers in the configured state", func(t *testing.T) {
		svc, fake := newTestService(t)
		brand := models.BrandClubeExtra
		fake.Success(gpatest.CatalogURI(brand), []models.Store{
			gpatest.Store("1", "DF"),
			gpatest.Store("2", "SP"),
			gpatest.Store("3", "DF"),
		})
		fake.Success(gpatest.PriceURI(brand, 77, 1),
			gpatest.Product(77, "Leite Integral", gpatest.InStock(1, 4, 5.0, gpatest.Promo(3.5, true))))
		fake.Success(gpatest.PriceURI(brand, 77, 3),
			gpatest.Product(77, "Leite Integral", gpatest.InStock(3, 2, 4.2)))

		result, err := svc.Crawl(context.Background(), CrawlRequest{
			Name:      "Leite",
			Keywords:  []string{"leite"},
			Site:      "clubeextra.com.br",
			ProductID: " 77 ",
		})

		require.NoError(t, err)
		assert.Equal(t, registry.Hash("Leite"), result.ID)
		assert.Equal(t, models.Price(3.5), result.Price)
		assert.Equal(t, "https://www.clubeextra.com.br/produto/77", result.Link)
		require.Len(t, result.Stores, 1)
		assert.Equal(t, "E1 – Loja 1", result.Stores[0].Name)
		assert.True(t, result.Stores[0].Meta.Promotion)
		require.NotNil(t, result.Stores[0].Meta.AppExclusive)
		assert.True(t, *result.Stores[0].Meta.AppExclusive)
		assert.Zero(t, fake.Hits(gpatest.PriceURI(brand, 77, 2)))
	})

	t.Run("backend failure is reported", func(t *testing.T) {
		svc, fake := newTestService(t)
		fake.Handle(gpatest.CatalogURI(models.BrandPaoDeAcucar), `{"status":"error","message":"boom","code":500}`)

		_, err := svc.Crawl(context.Background(), CrawlRequest{
			Name: "Leite", Site: "paodeacucar.com", ProductID: "1",
		})

		assert.ErrorIs(t, err, gpa.ErrBackendFailure)
	})
}

func TestCrawlService_ForRun(t *testing.T) {
	svc, fake := newTestService(t)
	uri := gpatest.CatalogURI(models.BrandPaoDeAcucar)
	fake.Success(uri, []models.Store{})
	req := CrawlRequest{Name: "Leite", Site: "paodeacucar.com", ProductID: "1"}

	first := svc.ForRun(cache.NewMemoryCache())
	_, err := first.Crawl(context.Background(), req)
	require.NoError(t, err)
	_, err = first.Crawl(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Hits(uri))

	second := svc.ForRun(cache.NewMemoryCache())
	_, err = second.Crawl(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Hits(uri))
}

func TestSites(t *testing.T) {
	site, ok := LookupSite("paodeacucar.com")
	require.True(t, ok)
	assert.Equal(t, models.BrandPaoDeAcucar, site.Brand)
	assert.Equal(t, "https://www.paodeacucar.com/produto/42", site.Link("42"))

	_, ok = LookupSite("amazon.com.br")
	assert.False(t, ok)

	list := Sites()
	list[0].Name = "changed"
	assert.NotEqual(t, "changed", Sites()[0].Name)
}
