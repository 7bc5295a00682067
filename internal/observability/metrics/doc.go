// Package metrics holds the Prometheus collectors for the poll pipeline:
// run results, fetched/skipped/delivered match counts, normalization
// rejects, the stored watermark, provider latency and store latency.
//
// All collectors are registered with the default registry through promauto
// and exposed on the worker's /metrics endpoint.
//
//	start := time.Now()
//	summary, err := svc.Run(ctx)
//	metrics.RecordRun(poll.ResultLabel(err), time.Since(start))
package metrics
