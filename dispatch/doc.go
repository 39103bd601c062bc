// Package dispatch routes named-function requests to the search proxy
// pipeline. The search path checks the query cache, then performs the
// upstream call under the shared resilience executor, normalizes the
// result, and stores it when non-empty. All errors leaving the package
// are classified faults safe to surface to callers.
package dispatch
