// Package metrics keeps process-wide counters exported by the /metrics endpoint.
package metrics

import "sync/atomic"

var (
	Generations        atomic.Int64
	GenerationFailures atomic.Int64
	PNGExports         atomic.Int64
	SVGExports         atomic.Int64
	Copies             atomic.Int64
	ExportFailures     atomic.Int64
	ActiveSessions     atomic.Int64
	RateLimited        atomic.Int64
)

// Snapshot is a point-in-time copy of every counter keyed by metric name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"promptqr_generations_total":         Generations.Load(),
		"promptqr_generation_failures_total": GenerationFailures.Load(),
		"promptqr_png_exports_total":         PNGExports.Load(),
		"promptqr_svg_exports_total":         SVGExports.Load(),
		"promptqr_copies_total":              Copies.Load(),
		"promptqr_export_failures_total":     ExportFailures.Load(),
		"promptqr_active_sessions":           ActiveSessions.Load(),
		"promptqr_rate_limited_total":        RateLimited.Load(),
	}
}
