// Package metrics groups every counter, gauge, and histogram the
// ingestion and engine stages increment, as a single collection
// struct registered once at process start.
//
// Grounded on the teacher's internal/metrics package being a
// single-purpose, narrowly-scoped metrics home (there: pure clustering
// math; here: the Prometheus collector set pulled from
// sankar-boro-axia-network-v2-coreth's direct client_golang dependency,
// the only pack repo that imports it directly).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors is the single struct of registered collectors the rest of
// the engine increments/observes.
type Collectors struct {
	TotalSwaps      prometheus.Counter
	PendingSwaps    prometheus.Gauge
	SuccessfulSwaps prometheus.Counter
	FailedSwaps     prometheus.Counter

	SwapsByDex *prometheus.CounterVec

	SkippedTiny            prometheus.Counter
	SkippedZero            prometheus.Counter
	SkippedUnexpectedCount prometheus.Counter
	SkippedNonNative       prometheus.Counter
	SkippedNoMetadata      prometheus.Counter

	DBInsertSuccess      prometheus.Counter
	DBInsertFailure      prometheus.Counter
	MessageSendSuccess   prometheus.Counter
	MessageSendFailure   prometheus.Counter
	KVInsertSuccess      prometheus.Counter
	KVInsertFailure      prometheus.Counter

	LatestUpdateSlot prometheus.Gauge

	PipelineEvaluations        prometheus.Counter
	PipelineEvaluationDuration prometheus.Histogram
	PriceUpdatesProcessed      prometheus.Counter
	PriceUpdateDuration        prometheus.Histogram
	ActivePipelines            prometheus.Gauge
}

// New builds and registers every collector against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the
// default global registry.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		TotalSwaps:      prometheus.NewCounter(prometheus.CounterOpts{Name: "total_swaps", Help: "total swaps observed"}),
		PendingSwaps:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "pending_swaps", Help: "swaps currently being processed"}),
		SuccessfulSwaps: prometheus.NewCounter(prometheus.CounterOpts{Name: "successful_swaps", Help: "swaps whose price update reached every sink"}),
		FailedSwaps:     prometheus.NewCounter(prometheus.CounterOpts{Name: "failed_swaps", Help: "swaps where at least one sink returned an error"}),

		SwapsByDex: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "swaps_by_dex", Help: "swaps observed per DEX family"}, []string{"dex"}),

		SkippedTiny:            prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped_tiny_swaps", Help: "swaps skipped as dust"}),
		SkippedZero:            prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped_zero_swaps", Help: "swaps skipped as zero-amount artifacts"}),
		SkippedUnexpectedCount: prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped_unexpected_count", Help: "swaps skipped for wrong transfer cardinality"}),
		SkippedNonNative:       prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped_non_native", Help: "swaps skipped for missing the native-wrapped mint"}),
		SkippedNoMetadata:      prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped_no_metadata", Help: "swaps skipped for missing token metadata"}),

		DBInsertSuccess:    prometheus.NewCounter(prometheus.CounterOpts{Name: "db_insert_success", Help: "warehouse sink successes"}),
		DBInsertFailure:    prometheus.NewCounter(prometheus.CounterOpts{Name: "db_insert_failure", Help: "warehouse sink failures"}),
		MessageSendSuccess: prometheus.NewCounter(prometheus.CounterOpts{Name: "message_send_success", Help: "bus publish successes"}),
		MessageSendFailure: prometheus.NewCounter(prometheus.CounterOpts{Name: "message_send_failure", Help: "bus publish failures"}),
		KVInsertSuccess:    prometheus.NewCounter(prometheus.CounterOpts{Name: "kv_insert_success", Help: "KV cache write successes"}),
		KVInsertFailure:    prometheus.NewCounter(prometheus.CounterOpts{Name: "kv_insert_failure", Help: "KV cache write failures"}),

		LatestUpdateSlot: prometheus.NewGauge(prometheus.GaugeOpts{Name: "latest_update_slot", Help: "slot of the most recently published price update"}),

		PipelineEvaluations:        prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_evaluations", Help: "pipeline evaluation runs"}),
		PipelineEvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "pipeline_evaluation_duration_seconds", Help: "pipeline evaluation latency"}),
		PriceUpdatesProcessed:      prometheus.NewCounter(prometheus.CounterOpts{Name: "price_updates_processed", Help: "price updates consumed by the engine"}),
		PriceUpdateDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Name: "price_update_duration_seconds", Help: "price update handling latency"}),
		ActivePipelines:            prometheus.NewGauge(prometheus.GaugeOpts{Name: "active_pipelines", Help: "pipelines currently tracked by the engine"}),
	}

	reg.MustRegister(
		c.TotalSwaps, c.PendingSwaps, c.SuccessfulSwaps, c.FailedSwaps, c.SwapsByDex,
		c.SkippedTiny, c.SkippedZero, c.SkippedUnexpectedCount, c.SkippedNonNative, c.SkippedNoMetadata,
		c.DBInsertSuccess, c.DBInsertFailure, c.MessageSendSuccess, c.MessageSendFailure, c.KVInsertSuccess, c.KVInsertFailure,
		c.LatestUpdateSlot,
		c.PipelineEvaluations, c.PipelineEvaluationDuration, c.PriceUpdatesProcessed, c.PriceUpdateDuration, c.ActivePipelines,
	)
	return c
}
