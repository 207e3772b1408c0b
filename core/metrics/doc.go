// Package metrics exposes Prometheus counters and histograms for the report
// cache and the reconciliation engine. A nil *Metrics is valid and records nothing.
package metrics
