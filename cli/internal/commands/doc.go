// Package commands defines the dlc CLI.
//
// Commands
//
//   - new         Create a match
//   - int         Record an interruption in the first or second innings
//   - target      Print team 2's revised target
//   - show        Print a match with its interruptions and resources
//   - list        List stored matches
//   - delete      Remove matches from the store
//   - categories  List match categories and their G50
//
// Matches live in a JSON store file chosen with --store or the
// DUCKWORTH_LEWIS_STORAGE environment variable. Commands act on the latest
// match unless --id selects another. With --server, target is computed by a
// remote dlc-server over gRPC instead of locally.
package commands
