package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockBelowMinimumScan reports products whose total stock is below min_stock.
	TaskStockBelowMinimumScan = "stock:below_minimum_scan"
)

// StockScanPayload identifies a stock scan run. Scheduled runs leave RunID
// empty and get one assigned when they start.
type StockScanPayload struct {
	RunID string `json:"run_id,omitempty"`
}

// NewStockScanTask constructs an Asynq task for the below-minimum scan.
func NewStockScanTask(payload StockScanPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockBelowMinimumScan, body, asynq.Queue(QueueDefault)), nil
}
