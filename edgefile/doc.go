// Package edgefile persists edge sequences. The native format is the flat
// binary one the engine's tooling exchanges: two signed 64-bit little-endian
// node ids per edge, nothing else. A parquet reader/writer covers
// interchange with column-store tooling.
//
// Readers stream; nothing here materialises a sequence proportional to the
// file size beyond the destination the caller chose.
package edgefile
