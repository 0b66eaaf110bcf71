// Package inventory walks a source tree, classifies images by orientation,
// and partitions them into category groups.
//
// Items live in a single arena owned by the Library; groups hold ordered
// integer handles into that arena rather than copies, so an annotation made
// later (such as the materialized artifact name) is visible through every
// group referencing the item. Scan order is the lexical walk order of the
// filesystem, which keeps group contents deterministic for identical
// on-disk state.
package inventory
