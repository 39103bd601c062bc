// Package resolve derives canonical document links for search results.
//
// Statute categories map to fixed registry pages; administrative rules infer
// their name from the result title; everything else falls back to a verbatim
// absolute sourcePath. Items that resolve to nothing are dropped downstream.
package resolve
