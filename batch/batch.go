package batch

import (
	"sync"

	"github.com/davidvella/ledgerfile/account"
	"github.com/google/btree"
)

// Batch accumulates account entries ahead of a write pass. Entries are
// deduplicated by address, keeping the entry with the highest write version,
// and iterate in address order. Batch satisfies accountfile.Batch.
type Batch struct {
	mu       sync.Mutex
	tree     *btree.BTreeG[account.Entry]
	snapshot []account.Entry
}

// New returns an empty batch.
func New() *Batch {
	return &Batch{
		tree: btree.NewG[account.Entry](2, func(a, b account.Entry) bool {
			return a.Less(b)
		}),
	}
}

// Add inserts an entry. An entry for an address already in the batch replaces
// the existing one only when its write version is at least as new.
func (b *Batch) Add(e account.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.tree.Get(e); ok && existing.WriteVersion > e.WriteVersion {
		return
	}
	b.tree.ReplaceOrInsert(e)
	b.snapshot = nil
}

// Len returns the number of distinct addresses in the batch.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.Len()
}

// Entry returns the i-th entry in address order.
func (b *Batch) Entry(i int) account.Entry {
	return b.Entries()[i]
}

// Entries returns all entries in address order. The returned slice is shared
// between calls until the next Add.
func (b *Batch) Entries() []account.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snapshot == nil {
		b.snapshot = make([]account.Entry, 0, b.tree.Len())
		b.tree.Ascend(func(e account.Entry) bool {
			b.snapshot = append(b.snapshot, e)
			return true
		})
	}
	return b.snapshot
}

// Slice adapts a plain slice of entries to the write-pass input contract,
// preserving the caller's order with no deduplication.
type Slice []account.Entry

func (s Slice) Len() int {
	return len(s)
}

func (s Slice) Entry(i int) account.Entry {
	return s[i]
}
