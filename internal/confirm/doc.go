// Package confirm implements the content-identity matching engine behind
// cpconfirm.
//
// The engine answers one question: does every file under a source directory
// have a byte-identical counterpart somewhere among one or more destination
// directories? Only file content matters — names, paths, and metadata are
// ignored.
//
// Execution runs in two strictly sequential phases. First every destination
// tree is walked and hashed by a fixed-size worker pool, and the resulting
// digests populate a digest-to-locations index. Only once every destination
// job has produced a result does the source phase begin: the source tree is
// walked and hashed through the same pool, and each source digest is looked
// up in the now read-only index. This single-writer-then-readers discipline
// means index lookups never need a lock.
//
// Per-file failures (unreadable entries during traversal, read errors during
// hashing) are surfaced in the Report but never abort a run. Only
// configuration errors are fatal.
package confirm
