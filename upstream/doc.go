// Package upstream is the transport client for the safety-law search API.
//
// A Client performs exactly one GET round trip per Search call and decodes
// the upstream envelope, including the case where a business error is
// wrapped inside a 200 response. Every failure is returned as a classified
// fault error; the service key never appears in errors or logs.
package upstream
