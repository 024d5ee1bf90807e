// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	TransformRuns         = expvar.NewInt("transform_runs")
	OrphansDropped        = expvar.NewInt("orphans_dropped")
	OrphansQuarantined    = expvar.NewInt("orphans_quarantined")
	EventSchemaViolations = expvar.NewInt("event_schema_violations")
	RecordsProcessed      = expvar.NewInt("records_processed")
	RecordFailures        = expvar.NewInt("record_failures")
	MessagesProduced      = expvar.NewInt("messages_produced")
	ProduceFailures       = expvar.NewInt("produce_failures")
)
