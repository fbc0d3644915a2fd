package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"price-crawler/internal/cache"
	"price-crawler/internal/gpa"
	"price-crawler/internal/gpa/gpatest"
	"price-crawler/internal/models"
	"price-crawler/internal/registry"
	"price-crawler/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *gpatest.Server) {
	gin.SetMode(gin.TestMode)
	fake := gpatest.NewServer(t)
	client := gpa.NewClient(fake.URL(), cache.NewMemoryCache(), 5*time.Second, false)
	svc := service.NewCrawlService(client, registry.New(), "DF")

	router := gin.New()
	NewHandler(svc).SetupRoutes(router)
	return router, fake
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	router, _ := setupRouter(t)

	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
	assert.Equal(t, http.StatusOK, get(router, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(router, "/metrics").Code)
}

func TestListSites(t *testing.T) {
	router, _ := setupRouter(t)

	w := get(router, "/api/v1/sites")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Sites []service.Site `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.Sites(), body.Sites)
}

func TestGetBestPrice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, fake := setupRouter(t)
		brand := models.BrandPaoDeAcucar
		fake.Success(gpatest.CatalogURI(brand), []models.Store{gpatest.Store("5", "DF")})
		fake.Success(gpatest.PriceURI(brand, 10, 5),
			gpatest.Product(10, "Café Torrado", gpatest.InStock(5, 3, 12.9)))

		w := get(router, "/api/v1/best-price/paodeacucar.com/10?keywords=caf%C3%A9,%20torrado&name=Caf%C3%A9")

		require.Equal(t, http.StatusOK, w.Code)
		var result models.CrawlResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, registry.Hash("Café"), result.ID)
		assert.Equal(t, models.Price(12.9), result.Price)
		assert.Equal(t, "https://www.paodeacucar.com/produto/10", result.Link)
		require.Len(t, result.Stores, 1)
		assert.Equal(t, "E5 – Loja 5", result.Stores[0].Name)
	})

	t.Run("keywords filter out the product", func(t *testing.T) {
		router, fake := setupRouter(t)
		brand := models.BrandPaoDeAcucar
		fake.Success(gpatest.CatalogURI(brand), []models.Store{gpatest.Store("5", "DF")})
		fake.Success(gpatest.PriceURI(brand, 10, 5),
			gpatest.Product(10, "Café Torrado", gpatest.InStock(5, 3, 12.9)))

		w := get(router, "/api/v1/best-price/paodeacucar.com/10?keywords=leite")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body["price"])
		assert.Empty(t, body["stores"])
	})

	t.Run("unknown site", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := get(router, "/api/v1/best-price/amazon.com.br/10")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid product id", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := get(router, "/api/v1/best-price/paodeacucar.com/abc")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		router, fake := setupRouter(t)
		fake.Handle(gpatest.CatalogURI(models.BrandClubeExtra), `{"status":"error","message":"boom","code":500}`)

		w := get(router, "/api/v1/best-price/clubeextra.com.br/10")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("integrity violation", func(t *testing.T) {
		router, fake := setupRouter(t)
		brand := models.BrandPaoDeAcucar
		fake.Success(gpatest.CatalogURI(brand), []models.Store{gpatest.Store("5", "DF")})
		fake.Success(gpatest.PriceURI(brand, 10, 5), gpatest.Product(11, "Outro"))

		w := get(router, "/api/v1/best-price/paodeacucar.com/10")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{}, splitKeywords(""))
	assert.Equal(t, []string{"A", "B C"}, splitKeywords(" A ,, B C ,"))
}
