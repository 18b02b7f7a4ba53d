// Package accountfile implements the append-once binary container that holds
// a sealed batch of account records: a single-pass writer that streams a
// batch into the on-disk layout, and a memory-mapped reader offering O(1)
// random access and restartable sequential iteration, zero-copy against the
// mapped region.
//
// Each file is produced by exactly one write pass and is immutable
// thereafter. There are no updates or deletes of individual records.
//
// Basic usage:
//
//	// Writing
//	infos, err := accountfile.WriteFile(path, batch, 0, accountfile.RawFormat)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Reading
//	reader, err := accountfile.OpenReader(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//
//	for pos, rec := range reader.All() {
//	    owner := reader.OwnerAt(int(rec.OwnerIndex()))
//	    // Process record
//	}
//
// File format (all integers little-endian):
//   - Account data block:
//   - Per record: fixed 32-byte metadata (balance, write version, payload
//     length, owner index, flags), 32-byte address, optional 32-byte
//     content hash, payload bytes
//   - Owners block:
//   - Deduplicated 32-byte owner addresses, first-seen order
//   - Index block:
//   - One 8-byte data-block offset per record, in write order
//   - Footer (56 bytes):
//   - Meta entry size (8 bytes)
//   - Four encoding ids (2 bytes each)
//   - Owners block offset and length (8 bytes each)
//   - Index block offset and length (8 bytes each)
//   - Record count (8 bytes)
//   - Magic number (8 bytes, "LEDGFILE")
//
// The footer is trailer-anchored: it is located by a fixed-size read from the
// end of the file, so opening a file never scans from the start. The magic
// number detects truncation and corruption; the encoding ids select how every
// other block is interpreted, and unrecognized ids are a hard validation
// failure rather than a silent fallback.
package accountfile
