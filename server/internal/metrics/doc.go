// Package metrics exposes dlc-server counters in the Prometheus text format.
//
// A Registry is safe for concurrent use and every method tolerates a nil
// receiver, so callers that run without metrics can pass nil.
package metrics
