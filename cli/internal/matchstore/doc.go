// Package matchstore keeps the dlc command's matches in a single JSON file
// so a match can be built up over several invocations.
//
// The file maps match IDs to records holding the team names, the creation
// time and a dls.Snapshot. Writes go to a temp file that is renamed over
// the target, so an interrupted write never leaves a truncated store.
package matchstore
