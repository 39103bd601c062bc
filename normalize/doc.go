// Package normalize reconciles raw upstream result lists into the clean
// outward representation: merge, dedup by document identity, placeholder
// stripping, and link resolution, with order preserved.
package normalize
