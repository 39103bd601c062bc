// Package observe provides telemetry for the proxy: structured JSON logging
// with credential redaction, OpenTelemetry metrics for the search pipeline
// (call totals, durations, cache hit rates, breaker transitions), and spans
// per dispatched function call.
//
// The upstream service key is on the redaction list; it never appears in a
// log entry regardless of where the field comes from.
package observe
