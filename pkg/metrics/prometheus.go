// Package metrics provides Prometheus metrics for the pitchboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultRefreshInterval is the suggested cadence for refreshing the
// system gauges; the entrypoint drives the actual ticker.
const defaultRefreshInterval = 10 * time.Second

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset metrics - season file loading and the month-shard cache
	datasetRowsLoaded   prometheus.Counter
	datasetRowsDropped  prometheus.Counter
	datasetMonthsMissed prometheus.Counter
	datasetLoadDuration prometheus.Histogram
	datasetCacheHits    prometheus.Counter
	datasetCacheMisses  prometheus.Counter

	// Indexing metrics - consistency scoring of pitch-type groups
	groupsScored   prometheus.Counter
	groupsSkipped  prometheus.Counter
	scoringLatency prometheus.Histogram
	scoringErrors  prometheus.Counter

	// Board metrics - ranked consistency boards
	boardUpdates            prometheus.Counter
	boardErrors             prometheus.Counter
	boardUpdateLatency      prometheus.Histogram
	boardQueryLatency       prometheus.Histogram
	boardEntriesPerType     *prometheus.GaugeVec
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotCount           prometheus.Counter
	snapshotLastDurationMs  prometheus.Gauge

	// Operational health gauges
	queueSize    prometheus.Gauge
	workerCount  prometheus.Gauge
	totalGroups  prometheus.Gauge
	totalPlayers prometheus.Gauge

	// Queue metrics - indexing queue performance
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueues          prometheus.Counter
	queueDequeues          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics - indexing worker performance
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics - read API performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics - component and endpoint breakdowns
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchboard",
		subsystem:        "stats",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// counterOpts, gaugeOpts and histogramOpts apply the manager-wide naming,
// prefix, const labels and buckets so the metric definitions below stay flat.
func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: prometheus.Labels(m.customLabels),
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: prometheus.Labels(m.customLabels),
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: prometheus.Labels(m.customLabels),
	}
}

// initializeMetrics creates all Prometheus metrics on the configured
// registry. Disabled managers register on a throwaway registry so the
// helpers stay callable without exposing anything.
func (m *Manager) initializeMetrics() {
	reg := m.registry
	if !m.enabled {
		reg = prometheus.NewRegistry()
	}
	auto := promauto.With(reg)

	// Dataset metrics
	m.datasetRowsLoaded = auto.NewCounter(m.counterOpts(
		"dataset_rows_loaded_total",
		"Total pitch observations loaded from season files"))
	m.datasetRowsDropped = auto.NewCounter(m.counterOpts(
		"dataset_rows_dropped_total",
		"Total rows dropped for unknown pitch types or unparseable fields"))
	m.datasetMonthsMissed = auto.NewCounter(m.counterOpts(
		"dataset_months_missing_total",
		"Total month files that were absent from the dataset directory"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds",
		"Month-file load duration in milliseconds"))
	m.datasetCacheHits = auto.NewCounter(m.counterOpts(
		"dataset_cache_hits_total",
		"Total month-shard cache hits"))
	m.datasetCacheMisses = auto.NewCounter(m.counterOpts(
		"dataset_cache_misses_total",
		"Total month-shard cache misses"))

	// Indexing metrics
	m.groupsScored = auto.NewCounter(m.counterOpts(
		"groups_scored_total",
		"Total pitch-type groups scored onto the boards"))
	m.groupsSkipped = auto.NewCounter(m.counterOpts(
		"groups_skipped_total",
		"Total pitch-type groups skipped for insufficient sample size"))
	m.scoringLatency = auto.NewHistogram(m.histogramOpts(
		"scoring_latency_milliseconds",
		"Consistency score computation latency in milliseconds"))
	m.scoringErrors = auto.NewCounter(m.counterOpts(
		"scoring_errors_total",
		"Total scoring failures"))

	// Board metrics
	m.boardUpdates = auto.NewCounter(m.counterOpts(
		"board_updates_total",
		"Total entries written to the consistency boards"))
	m.boardErrors = auto.NewCounter(m.counterOpts(
		"board_errors_total",
		"Total board write failures"))
	m.boardUpdateLatency = auto.NewHistogram(m.histogramOpts(
		"board_update_latency_milliseconds",
		"Board update operation latency in milliseconds"))
	m.boardQueryLatency = auto.NewHistogram(m.histogramOpts(
		"board_query_latency_milliseconds",
		"Board query operation latency in milliseconds"))
	m.boardEntriesPerType = auto.NewGaugeVec(m.gaugeOpts(
		"board_entries_per_type",
		"Number of board entries per pitch type"),
		[]string{"pitch_type"})
	m.snapshotRebuildDuration = auto.NewHistogram(m.histogramOpts(
		"board_snapshot_rebuild_duration_milliseconds",
		"Board snapshot rebuild duration in milliseconds"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts(
		"board_snapshot_last_unix",
		"Unix timestamp of the last board snapshot publish"))
	m.snapshotCount = auto.NewCounter(m.counterOpts(
		"board_snapshot_count_total",
		"Total board snapshots published"))
	m.snapshotLastDurationMs = auto.NewGauge(m.gaugeOpts(
		"board_snapshot_last_duration_milliseconds",
		"Last board snapshot rebuild duration in milliseconds"))

	// Operational health gauges
	m.queueSize = auto.NewGauge(m.gaugeOpts(
		"queue_size",
		"Current size of the indexing queue"))
	m.workerCount = auto.NewGauge(m.gaugeOpts(
		"worker_count",
		"Configured number of indexing workers"))
	m.totalGroups = auto.NewGauge(m.gaugeOpts(
		"total_groups",
		"Total pitch-type groups in the current snapshot"))
	m.totalPlayers = auto.NewGauge(m.gaugeOpts(
		"total_players",
		"Total pitchers in the current snapshot"))

	// Queue metrics
	m.queueCapacity = auto.NewGauge(m.gaugeOpts(
		"queue_capacity",
		"Maximum indexing queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts(
		"queue_utilization_ratio",
		"Queue utilization ratio (current size / capacity)"))
	m.queueEnqueues = auto.NewCounter(m.counterOpts(
		"queue_enqueue_total",
		"Total jobs enqueued"))
	m.queueDequeues = auto.NewCounter(m.counterOpts(
		"queue_dequeue_total",
		"Total jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts(
		"queue_enqueue_errors_total",
		"Total enqueue failures"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"queue_processing_latency_milliseconds",
		"Queue hand-off latency in milliseconds"))

	// Worker metrics
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts(
		"worker_active_count",
		"Number of running indexing workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds",
		"Worker job processing latency in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counterOpts(
		"worker_errors_total",
		"Total worker job failures"))

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	// Error metrics
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total",
		"Total errors by component and error type"),
		[]string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total",
		"Total errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"})

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes",
		"Process heap allocation in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count",
		"Number of goroutines"))
}

// Dataset metrics functions.

// AddDatasetRowsLoaded adds to the loaded-row counter.
func AddDatasetRowsLoaded(n int) {
	globalManager.datasetRowsLoaded.Add(float64(n))
}

// AddDatasetRowsDropped adds to the dropped-row counter.
func AddDatasetRowsDropped(n int) {
	globalManager.datasetRowsDropped.Add(float64(n))
}

// RecordDatasetMonthMissing increments the missing-month counter.
func RecordDatasetMonthMissing() {
	globalManager.datasetMonthsMissed.Inc()
}

// RecordDatasetLoadDuration records one month-file load duration.
func RecordDatasetLoadDuration(latencyMs float64) {
	globalManager.datasetLoadDuration.Observe(latencyMs)
}

// RecordDatasetCacheHit increments the shard-cache hit counter.
func RecordDatasetCacheHit() {
	globalManager.datasetCacheHits.Inc()
}

// RecordDatasetCacheMiss increments the shard-cache miss counter.
func RecordDatasetCacheMiss() {
	globalManager.datasetCacheMisses.Inc()
}

// Indexing metrics functions.

// RecordGroupScored increments the scored-group counter.
func RecordGroupScored() {
	globalManager.groupsScored.Inc()
}

// RecordGroupSkipped increments the skipped-group counter.
func RecordGroupSkipped() {
	globalManager.groupsSkipped.Inc()
}

// RecordScoringLatency records one consistency score computation.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring error counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// Board metrics functions.

// RecordBoardUpdate increments the board update counter.
func RecordBoardUpdate() {
	globalManager.boardUpdates.Inc()
}

// RecordBoardError increments the board error counter.
func RecordBoardError() {
	globalManager.boardErrors.Inc()
}

// RecordBoardUpdateLatency records a board write latency.
func RecordBoardUpdateLatency(latencyMs float64) {
	globalManager.boardUpdateLatency.Observe(latencyMs)
}

// RecordBoardQueryLatency records a board read latency.
func RecordBoardQueryLatency(latencyMs float64) {
	globalManager.boardQueryLatency.Observe(latencyMs)
}

// UpdateBoardEntries sets the entry count of one pitch type's board.
func UpdateBoardEntries(pitchType string, count int) {
	globalManager.boardEntriesPerType.WithLabelValues(pitchType).Set(float64(count))
}

// RecordSnapshotRebuildDuration records one snapshot rebuild.
func RecordSnapshotRebuildDuration(latencyMs float64) {
	globalManager.snapshotRebuildDuration.Observe(latencyMs)
}

// UpdateSnapshotLastUnix sets the publish time of the latest snapshot.
func UpdateSnapshotLastUnix(unix int64) {
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// IncrementSnapshotCount increments the published-snapshot counter.
func IncrementSnapshotCount() {
	globalManager.snapshotCount.Inc()
}

// UpdateSnapshotLastDuration sets the duration of the latest rebuild.
func UpdateSnapshotLastDuration(latencyMs float64) {
	globalManager.snapshotLastDurationMs.Set(latencyMs)
}

// Operational health functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateTotalGroups sets the group count of the current snapshot.
func UpdateTotalGroups(count int) {
	globalManager.totalGroups.Set(float64(count))
}

// UpdateTotalPlayers sets the pitcher count of the current snapshot.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// Queue metrics functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue hand-off latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker metrics functions.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker job latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error metrics functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics functions.

// UpdateSystemMemoryUsage sets the process heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RefreshInterval returns the suggested cadence for the system gauges.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
