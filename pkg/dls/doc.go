// Package dls implements the Duckworth-Lewis Standard Edition revised-target
// calculation for interrupted limited-overs cricket matches.
//
// table.go holds the published resource table (percentage of scoring
// potential left for a given overs-remaining / wickets-lost position) and the
// linear interpolation used for part-overs.
//
// innings.go provides Innings, the per-team accumulator of interruptions.
// Each interruption removes overs from the allocation and costs the batting
// side R(left, w) - R(left - removed, w) of its resources.
//
// target.go provides the pure ComputeTarget function:
//
//	R2 <  R1: par = S * R2 / R1
//	R2 >  R1: par = S + G50 * (R2 - R1) / 100
//	target    = floor(par) + 1
//
// match.go wraps both innings behind the Match facade used by the CLI and
// the server, including a lossless Snapshot representation.
//
// Overs are counted in balls and resources in sixtieths of a percent so the
// whole calculation runs in integer arithmetic. Nothing in this package
// locks; callers own one Match per goroutine or synchronise externally.
package dls
