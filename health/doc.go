// Package health reports the proxy's operational state: the upstream
// circuit breaker and the query cache. An open circuit degrades the proxy
// rather than failing it, since cached responses remain servable.
package health
