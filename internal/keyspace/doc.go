// Package keyspace sizes the hexadecimal slot address space and assigns
// items to slots.
//
// The Width function picks the smallest hex-digit count able to address a
// group, subject to a configured floor, and Allocate fills every slot in
// the resulting space by deterministic cyclic repetition. Both are pure:
// identical inputs always yield identical results, which keeps rebuilt
// output trees diffable and lets routing rules be generated independently
// of materialization.
package keyspace
