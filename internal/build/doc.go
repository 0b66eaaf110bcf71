// Package build orchestrates one end-to-end run: scan, size, allocate,
// materialize, render rules.
//
// A run is single-pass and synchronous. The keyspace width is computed
// exactly once, after every classification attempt has resolved, and the
// same value is threaded into both the materializer and the rule
// generator so the routing expressions can never drift from the file
// layout. Output is staged into a sibling directory and swapped in only
// on success; an interrupted build leaves the previous tree untouched.
package build
