package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockroom/stockroom/internal/jobs"
	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/masterdata/products"
)

// ProductLister pages through products with listing filters applied.
type ProductLister interface {
	List(ctx context.Context, req listing.QueryRequest, page int) (listing.Page[products.Product], error)
}

// StockGauge receives the number of products found below their minimum.
type StockGauge interface {
	SetProductsBelowMinimum(n int)
}

// StockScanJob walks every product below its minimum stock and reports it.
type StockScanJob struct {
	Products ProductLister
	Gauge    StockGauge
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewStockScanJob wires dependencies for the scan handler.
func NewStockScanJob(lister ProductLister, gauge StockGauge, logger *slog.Logger, metrics *jobmetrics.Metrics) *StockScanJob {
	return &StockScanJob{Products: lister, Gauge: gauge, Logger: logger, Metrics: metrics}
}

// Handle processes TaskStockBelowMinimumScan tasks.
func (j *StockScanJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Products == nil {
		return errors.New("stock scan: handler not configured")
	}
	tracker := j.Metrics.Track(TaskStockBelowMinimumScan)
	defer func() {
		err = tracker.End(err)
	}()

	var payload StockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Error("stock scan: decode payload", slog.Any("error", err))
		return fmt.Errorf("stock scan: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	// Scheduled runs carry no id; on-demand runs get one when enqueued.
	if payload.RunID == "" {
		tracker.Trigger(jobmetrics.TriggerCron)
		payload.RunID = uuid.NewString()
	} else {
		tracker.Trigger(jobmetrics.TriggerManual)
	}

	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting stock scan")

	found, err := j.Scan(ctx, logger)
	if err != nil {
		logger.Error("stock scan", slog.Any("error", err))
		return err
	}
	if j.Gauge != nil {
		j.Gauge.SetProductsBelowMinimum(found)
	}
	j.Metrics.AddFlagged(TaskStockBelowMinimumScan, found)
	logger.Info("stock scan finished", slog.Int("below_minimum", found))
	return nil
}

// Scan pages through the below_minimum listing and logs every product in it.
func (j *StockScanJob) Scan(ctx context.Context, logger *slog.Logger) (int, error) {
	req := listing.QueryRequest{Sort: "title", Filters: map[string]string{"below_minimum": "1"}}
	found := 0
	for page := 1; ; page++ {
		result, err := j.Products.List(ctx, req, page)
		if err != nil {
			return found, fmt.Errorf("stock scan: page %d: %w", page, err)
		}
		for _, p := range result.Items {
			var total int64
			if p.TotalQuantity != nil {
				total = *p.TotalQuantity
			}
			logger.Warn("product below minimum stock",
				slog.Int64("product_id", p.ID),
				slog.String("title", p.Title),
				slog.Int64("total_quantity", total),
				slog.Int("min_stock", p.MinStock))
			found++
		}
		if page >= result.LastPage || len(result.Items) == 0 {
			return found, nil
		}
	}
}

func (j *StockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// StockScanCron builds the cron registration of the stock scan.
func StockScanCron(spec string) (CronRegistration, error) {
	task, err := NewStockScanTask(StockScanPayload{})
	if err != nil {
		return CronRegistration{}, err
	}
	return CronRegistration{Spec: spec, Task: task, Options: []asynq.Option{asynq.MaxRetry(3)}}, nil
}
