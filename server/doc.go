// Package server is the HTTP transport in front of the dispatcher: a
// single POST /invoke endpoint plus health probes. Error responses carry
// the classified kind and a caller-safe message only.
package server
