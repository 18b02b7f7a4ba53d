// Package blockio implements the low-level binary encoding primitives shared
// by the container format: a counting little-endian writer used while
// streaming blocks to disk, and a zero-copy slice reader used to decode
// blocks directly out of a memory-mapped region.
//
// Basic usage:
//
//	// Writing
//	bw := blockio.NewBlockWriter(file)
//	_ = bw.WriteUint64(42)
//	_ = bw.WriteBytes(payload)
//	offset := bw.Offset()
//
//	// Reading
//	sr := blockio.NewSliceReader(mapped)
//	v, err := sr.ReadUint64()
//
// All integers are little-endian. SliceReader byte reads alias the underlying
// buffer rather than copying it.
package blockio
