// Package extsort supplies the external-memory primitives behind the
// edge-switching engine: a memory-bounded Sorter that spills sorted runs to
// temporary files, a comparator-ordered PriorityQueue, a RunsCreator that
// turns pre-sorted chunks from many producers into one merged stream, and a
// PQSorterMerger that presents a sorted run and a priority queue as a single
// in-order stream.
//
// # Records
//
// Every record type is fixed-size on disk; a Codec describes the encoding.
// Comparators are plain func(a, b T) bool over the full record, so equal
// records are identical and unstable sorting is safe.
//
// # Error handling
//
// Sorters and runs creators are streaming hot paths, so IO failures follow
// the sticky-error model of bufio: Push never returns an error, the first
// failure is retained, every later operation is a no-op, and Err() reports
// the failure. Callers check Err() at phase boundaries and fail stop; a
// partially spilled sorter makes no consistency promise. File-level causes
// are wrapped with github.com/pkg/errors for context.
//
// # Memory
//
// The Sorter holds at most memLimit bytes of resident records, or 4096
// records when that budget is smaller. The RunsCreator keeps submitted chunks
// resident up to its budget and spills the rest. The PriorityQueue takes no
// budget: it holds every queued record in memory. Apart from the
// PriorityQueue, nothing in this package scales its resident footprint with
// the total record count.
package extsort
