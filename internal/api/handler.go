package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"price-crawler/internal/cache"
	"price-crawler/internal/gpa"
	"price-crawler/internal/service"
	"price-crawler/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	crawlService *service.CrawlService
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(crawlService *service.CrawlService) *Handler {
	return &Handler{
		crawlService: crawlService,
		logger:       util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sites", h.listSites)
		v1.GET("/best-price/:site/:productId", h.getBestPrice)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listSites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sites": service.Sites(),
	})
}

// getBestPrice crawls one product on one site. Every request is its own
// run with a fresh response cache.
func (h *Handler) getBestPrice(c *gin.Context) {
	site := c.Param("site")
	if _, ok := service.LookupSite(site); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown site",
			"site":  site,
		})
		return
	}

	productID := c.Param("productId")
	name := c.Query("name")
	if name == "" {
		name = productID
	}

	req := service.CrawlRequest{
		Name:      name,
		Keywords:  splitKeywords(c.Query("keywords")),
		Site:      site,
		ProductID: productID,
	}

	result, err := h.crawlService.ForRun(cache.NewMemoryCache()).Crawl(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		h.logger.Error("Best price request failed",
			zap.String("site", site),
			zap.String("product_id", productID),
			zap.Int("status", status),
			zap.Error(err))
		c.JSON(status, gin.H{
			"error":   "Failed to get best price",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func splitKeywords(raw string) []string {
	keywords := []string{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gpa.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, gpa.ErrBackendFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
