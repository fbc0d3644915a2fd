package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-crawler/config"
	"price-crawler/internal/api"
	"price-crawler/internal/broker"
	"price-crawler/internal/cache"
	"price-crawler/internal/frontmatter"
	"price-crawler/internal/gpa"
	"price-crawler/internal/redisclient"
	"price-crawler/internal/registry"
	"price-crawler/internal/service"
	"price-crawler/internal/util"
	"price-crawler/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const usage = `usage: crawler [run|serve] [flags]

  run    crawl every product in the source file and print the results (default)
  serve  expose the crawler over HTTP
`

func main() {
	os.Exit(execute())
}

func execute() int {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "run" || args[0] == "serve") {
		cmd, args = args[0], args[1:]
	}

	cfg := config.Load()

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Crawler.SourceFile, "file", cfg.Crawler.SourceFile, "Markdown file whose front matter lists the products")
	fs.StringVar(&cfg.Crawler.StoreState, "state", cfg.Crawler.StoreState, "only consider stores in this state")
	fs.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "HTTP port for serve")
	fs.StringVar(&cfg.Crawler.RunID, "run-id", cfg.Crawler.RunID, "join an existing run and share its redis response cache")
	_ = fs.Parse(args)

	// a run id given from outside belongs to several processes
	runID, sharedRun := cfg.Crawler.RunID, cfg.Crawler.RunID != ""
	if !sharedRun {
		runID = uuid.New().String()
	}

	if err := util.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer util.SyncLogger()

	logger := util.GetLogger()

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint, cfg.App.Env, runID)
		if err != nil {
			logger.Error("Failed to initialize tracer", zap.Error(err))
			return 1
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	client := gpa.NewClient(cfg.GPA.BaseURL, cache.NewMemoryCache(), cfg.GPA.Timeout, cfg.App.Debug)
	crawlService := service.NewCrawlService(client, registry.New(), cfg.Crawler.StoreState)

	if cmd == "serve" {
		return serve(cfg, crawlService)
	}
	return run(cfg, crawlService, runID, sharedRun)
}

func run(cfg *config.Config, crawlService *service.CrawlService, runID string, sharedRun bool) int {
	logger := util.GetLogger()
	ctx := context.Background()

	entries, err := frontmatter.LoadFile(cfg.Crawler.SourceFile)
	if err != nil {
		logger.Error("Failed to load product list",
			zap.String("file", cfg.Crawler.SourceFile),
			zap.Error(err))
		return 1
	}

	responses, closeCache, err := newRunCache(cfg, runID, sharedRun)
	if err != nil {
		logger.Error("Failed to create response cache", zap.Error(err))
		return 1
	}
	defer closeCache()

	var publisher broker.Publisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicBestPrice)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicBestPrice))
	}

	crawlWorker := worker.NewCrawlWorker(crawlService.ForRun(responses), publisher, runID)
	outcomes := crawlWorker.Run(ctx, worker.TasksFromEntries(entries))

	failed, err := worker.WriteResults(os.Stdout, outcomes)
	if err != nil {
		logger.Error("Failed to write results", zap.Error(err))
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// newRunCache returns the response cache of one run and a func that
// releases it. Keys of a shared run are left to expire through the TTL.
func newRunCache(cfg *config.Config, runID string, sharedRun bool) (cache.Cache, func(), error) {
	logger := util.GetLogger()

	if cfg.Cache.Type != "redis" {
		return cache.NewMemoryCache(), func() {}, nil
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, runID, cfg.Redis.RunTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Redis connected",
		zap.String("run_id", runID),
		zap.Bool("shared", sharedRun))

	return redisClient, func() {
		defer redisClient.Close()
		if sharedRun {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := redisClient.Clear(ctx); err != nil {
			logger.Warn("Failed to clear run cache", zap.Error(err))
		}
	}, nil
}

func serve(cfg *config.Config, crawlService *service.CrawlService) int {
	logger := util.GetLogger()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(crawlService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return 1
	}

	logger.Info("Server exited")
	return 0
}
