package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run triggers. A run whose task could not be decoded keeps TriggerUnknown.
const (
	TriggerCron    = "cron"
	TriggerManual  = "manual"
	TriggerUnknown = "unknown"
)

// Metrics holds the collectors shared by the worker's task handlers.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	flagged  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors on registerer, or once on the default
// Prometheus registerer when it is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker times one task run.
type Tracker struct {
	metrics *Metrics
	job     string
	trigger string
	start   time.Time
}

// Track starts timing a run of job. The trigger is unknown until Trigger is called.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, trigger: TriggerUnknown, start: time.Now()}
}

// Trigger records whether the run came from the scheduler or an on-demand request.
func (t *Tracker) Trigger(trigger string) *Tracker {
	if t != nil && trigger != "" {
		t.trigger = trigger
	}
	return t
}

// End records the outcome and duration of the run and hands err back, so it
// can sit in a deferred assignment.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, t.trigger, status).Inc()
	t.metrics.duration.WithLabelValues(t.job, t.trigger).Observe(time.Since(t.start).Seconds())
	return err
}

// AddFlagged counts products a run found below their minimum stock.
func (m *Metrics) AddFlagged(job string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.flagged.WithLabelValues(job).Add(float64(count))
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockroom_jobs_total",
		Help: "Task runs by job, trigger (cron, manual, unknown) and status.",
	}, []string{"job", "trigger", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockroom_jobs_failures_total",
		Help: "Failed task runs by job, including tasks whose payload could not be decoded.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockroom_job_duration_seconds",
		Help:    "Task run duration by job and trigger.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job", "trigger"})
	flagged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockroom_jobs_flagged_items_total",
		Help: "Products reported below their minimum stock by scan runs.",
	}, []string{"job"})
	registerer.MustRegister(runs, failures, duration, flagged)
	return &Metrics{runs: runs, failures: failures, duration: duration, flagged: flagged}
}
