package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"price-crawler/internal/broker"
	"price-crawler/internal/frontmatter"
	"price-crawler/internal/models"
	"price-crawler/internal/service"
	"price-crawler/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Crawler resolves one product on one site
type Crawler interface {
	Crawl(ctx context.Context, req service.CrawlRequest) (*models.CrawlResult, error)
}

// Outcome is the settled state of one task
type Outcome struct {
	Request service.CrawlRequest
	Result  *models.CrawlResult
	Err     error
}

// Failed reports whether the task ended with an error
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// TasksFromEntries expands every entry into one task per site, in file order
func TasksFromEntries(entries []frontmatter.Entry) []service.CrawlRequest {
	var tasks []service.CrawlRequest
	for _, entry := range entries {
		for _, sp := range entry.Sites {
			tasks = append(tasks, service.CrawlRequest{
				Name:      entry.Name,
				Keywords:  entry.Keywords,
				Site:      sp.Site,
				ProductID: sp.ProductID,
			})
		}
	}
	return tasks
}

// CrawlWorker runs a batch of crawl tasks
type CrawlWorker struct {
	crawler   Crawler
	publisher broker.Publisher
	runID     string
	logger    *zap.Logger
}

// NewCrawlWorker creates a new crawl worker. A nil publisher drops events.
func NewCrawlWorker(crawler Crawler, publisher broker.Publisher, runID string) *CrawlWorker {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &CrawlWorker{
		crawler:   crawler,
		publisher: publisher,
		runID:     runID,
		logger:    util.GetLogger(),
	}
}

// Run executes all tasks concurrently and waits for every one of them.
// A failing task never cancels the others. Outcomes keep task order.
func (w *CrawlWorker) Run(ctx context.Context, tasks []service.CrawlRequest) []Outcome {
	w.logger.Info("Starting crawl run",
		zap.String("run_id", w.runID),
		zap.Int("tasks", len(tasks)))

	outcomes := make([]Outcome, len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			outcomes[i] = w.runTask(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	w.logger.Info("Crawl run finished",
		zap.String("run_id", w.runID),
		zap.Int("tasks", len(tasks)),
		zap.Int("failed", failed))

	return outcomes
}

func (w *CrawlWorker) runTask(ctx context.Context, task service.CrawlRequest) Outcome {
	start := time.Now()
	result, err := w.crawler.Crawl(ctx, task)
	util.CrawlTaskLatency.WithLabelValues(task.Site).Observe(time.Since(start).Seconds())

	if err != nil {
		util.CrawlTasksTotal.WithLabelValues(task.Site, "failed").Inc()
		w.logger.Error("Crawl task failed",
			zap.String("site", task.Site),
			zap.String("product_id", task.ProductID),
			zap.String("name", task.Name),
			zap.Error(err))
		w.publishFailed(ctx, task, err)
		return Outcome{Request: task, Err: err}
	}

	util.CrawlTasksTotal.WithLabelValues(task.Site, "succeeded").Inc()
	w.publishFound(ctx, task, result)
	return Outcome{Request: task, Result: result}
}

func (w *CrawlWorker) baseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		RunID:     w.runID,
		Timestamp: time.Now(),
	}
}

// publish failures are logged and never fail the task
func (w *CrawlWorker) publishFound(ctx context.Context, task service.CrawlRequest, result *models.CrawlResult) {
	event := &models.BestPriceFoundEvent{
		BaseEvent: w.baseEvent(models.EventTypeBestPriceFound),
		Site:      task.Site,
		ProductID: task.ProductID,
		Result:    *result,
	}
	if err := w.publisher.PublishBestPriceFound(ctx, event); err != nil {
		w.logger.Warn("Failed to publish BestPriceFound event",
			zap.String("site", task.Site),
			zap.String("product_id", task.ProductID),
			zap.Error(err))
	}
}

func (w *CrawlWorker) publishFailed(ctx context.Context, task service.CrawlRequest, cause error) {
	event := &models.CrawlFailedEvent{
		BaseEvent: w.baseEvent(models.EventTypeCrawlFailed),
		Site:      task.Site,
		ProductID: task.ProductID,
		Name:      task.Name,
		Reason:    cause.Error(),
	}
	if err := w.publisher.PublishCrawlFailed(ctx, event); err != nil {
		w.logger.Warn("Failed to publish CrawlFailed event",
			zap.String("site", task.Site),
			zap.String("product_id", task.ProductID),
			zap.Error(err))
	}
}

// WriteResults prints every successful result as indented JSON, in task
// order, and returns the number of failed tasks.
func WriteResults(out io.Writer, outcomes []Outcome) (int, error) {
	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			continue
		}
		data, err := json.MarshalIndent(o.Result, "", "  ")
		if err != nil {
			return failed, fmt.Errorf("failed to marshal result: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return failed, fmt.Errorf("failed to write result: %w", err)
		}
	}
	return failed, nil
}
