// Package materialize writes the slot output tree for every category group.
//
// Direct mode produces one encoded media file per slot. Indirect mode first
// assigns every item a content-hashed artifact name, writes each unique
// artifact once into a flat store, and then writes one small JSON pointer
// record per slot referencing it. Per-slot and per-item work runs on a
// bounded worker pool; a single failed conversion is logged and skipped,
// never aborting the run.
package materialize
