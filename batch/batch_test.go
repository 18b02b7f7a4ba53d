package batch_test

import (
	"sync"
	"testing"

	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(addrByte uint8, version uint64, balance uint64) account.Entry {
	var addr account.Address
	addr[0] = addrByte
	return account.Entry{
		Address:      addr,
		Account:      account.RecordImpl{Balance: balance},
		WriteVersion: version,
	}
}

func TestBatchOrdersByAddress(t *testing.T) {
	b := batch.New()
	b.Add(entry(3, 1, 30))
	b.Add(entry(1, 1, 10))
	b.Add(entry(2, 1, 20))

	require.Equal(t, 3, b.Len())
	for i, want := range []uint8{1, 2, 3} {
		assert.Equal(t, want, b.Entry(i).Address[0])
	}
}

func TestBatchDeduplicatesByAddress(t *testing.T) {
	b := batch.New()
	b.Add(entry(1, 1, 10))
	b.Add(entry(1, 2, 20))

	require.Equal(t, 1, b.Len())
	assert.Equal(t, uint64(20), b.Entry(0).Account.GetBalance())

	// A stale write version never replaces a newer entry.
	b.Add(entry(1, 1, 99))
	require.Equal(t, 1, b.Len())
	assert.Equal(t, uint64(20), b.Entry(0).Account.GetBalance())

	// An equal write version does.
	b.Add(entry(1, 2, 40))
	assert.Equal(t, uint64(40), b.Entry(0).Account.GetBalance())
}

func TestBatchConcurrentAdd(t *testing.T) {
	b := batch.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				b.Add(entry(uint8(j), uint64(i), uint64(i)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 32, b.Len())
}

func TestSlicePreservesOrder(t *testing.T) {
	s := batch.Slice{
		entry(9, 1, 1),
		entry(9, 1, 2),
		entry(1, 1, 3),
	}

	// No deduplication, no reordering.
	require.Equal(t, 3, s.Len())
	assert.Equal(t, uint64(1), s.Entry(0).Account.GetBalance())
	assert.Equal(t, uint64(2), s.Entry(1).Account.GetBalance())
	assert.Equal(t, uint8(1), s.Entry(2).Address[0])
}
