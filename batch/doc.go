// Package batch provides in-memory assembly of write batches for the storage
// engine. A Batch collects account entries, deduplicates them by address
// keeping the highest write version, and presents them to the writer in
// address order. A Slice adapts an existing []account.Entry verbatim when the
// caller already controls ordering.
//
// Basic usage:
//
//	b := batch.New()
//	b.Add(entry1)
//	b.Add(entry2)
//
//	store := ledgerfile.NewWritable(path)
//	infos, err := store.Write(b, 0, accountfile.RawFormat)
package batch
