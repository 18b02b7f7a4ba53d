package accountfile

import (
	"encoding/binary"
	"fmt"
	"iter"
	"os"
	"sync"

	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/blockio"
	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/s2"
)

// Reader provides random access and sequential iteration over one sealed
// file. The file is memory-mapped read-only and fully validated before the
// Reader is returned; after that the Reader is immutable and safe for
// unsynchronized concurrent use.
type Reader struct {
	mu     sync.Mutex
	closed bool

	f      *os.File
	mapped mmap.MMap
	footer Footer

	// data is the decoded account data block: a sub-slice of the mapping for
	// the raw format, or a decompressed copy for the compressed format.
	data   []byte
	owners []byte
	index  []byte
}

// OpenReader opens, maps and validates the sealed file at path. The file is
// never exposed for reads if any part of its trailer is missing, garbled or
// internally inconsistent.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("accountfile: failed to open %s: %w", path, err)
	}

	r, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("accountfile: %s: %w", path, err)
	}
	return r, nil
}

func newReader(f *os.File) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size < TrailerSize {
		return nil, fmt.Errorf("%w: file is %d bytes, smaller than the %d byte trailer", ErrInvalidFooter, size, TrailerSize)
	}

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap: %w", err)
	}

	r, err := validate(f, mapped, size)
	if err != nil {
		mapped.Unmap()
		return nil, err
	}
	return r, nil
}

func validate(f *os.File, mapped mmap.MMap, size int64) (*Reader, error) {
	ft, err := decodeFooter(mapped[size-TrailerSize:])
	if err != nil {
		return nil, err
	}
	if err := ft.validate(size); err != nil {
		return nil, err
	}

	r := &Reader{
		f:      f,
		mapped: mapped,
		footer: ft,
		owners: mapped[ft.OwnersOffset : ft.OwnersOffset+ft.OwnersLength],
		index:  mapped[ft.IndexOffset : ft.IndexOffset+ft.IndexLength],
	}

	switch ft.Format.Data {
	case DataRawV1:
		r.data = mapped[:ft.OwnersOffset]
	case DataS2V1:
		// A zero-record file carries no data block to decode.
		if ft.OwnersOffset > 0 {
			r.data, err = s2.Decode(nil, mapped[:ft.OwnersOffset])
			if err != nil {
				return nil, fmt.Errorf("%w: corrupt compressed data block: %v", ErrInvalidFooter, err)
			}
		}
	}

	// Every index entry must reference the data block, in write order.
	var prev uint64
	for i := 0; i < int(ft.RecordCount); i++ {
		offset := r.offsetAt(i)
		if offset > uint64(len(r.data)) {
			return nil, fmt.Errorf("%w: index entry %d references offset %d past data block of %d bytes", ErrInvalidFooter, i, offset, len(r.data))
		}
		if offset < prev {
			return nil, fmt.Errorf("%w: index entry %d offset %d decreases from %d", ErrInvalidFooter, i, offset, prev)
		}
		prev = offset
	}
	return r, nil
}

// Footer returns the decoded trailer.
func (r *Reader) Footer() Footer {
	return r.footer
}

// RecordCount returns the number of records in the file.
func (r *Reader) RecordCount() int {
	return int(r.footer.RecordCount)
}

// OwnerCount returns the number of deduplicated owner addresses.
func (r *Reader) OwnerCount() int {
	return len(r.owners) / account.AddressSize
}

// OwnerAt returns the owner address stored at index i. An out-of-range index
// is a bug in the caller, not a property of the data: every owner index
// decoded from a validated file is in range, so OwnerAt panics rather than
// returning an error.
func (r *Reader) OwnerAt(i int) account.Address {
	if i < 0 || i >= r.OwnerCount() {
		panic(fmt.Sprintf("accountfile: owner index %d out of range [0,%d)", i, r.OwnerCount()))
	}
	return account.AddressFromBytes(r.owners[i*account.AddressSize:])
}

// GetRecord decodes the record at the given index-table position and returns
// it together with the position of the next record. Positions at or past
// RecordCount return a nil record and the position unchanged; that is the
// iteration terminator, never an error. GetRecord does not mutate the reader,
// so any number of iterations may run concurrently and any valid position can
// be used to resume one.
func (r *Reader) GetRecord(position int) (*StoredRecord, int, error) {
	if position < 0 {
		panic(fmt.Sprintf("accountfile: negative record position %d", position))
	}
	if position >= r.RecordCount() {
		return nil, position, nil
	}

	rec, err := decodeRecord(r.data, r.offsetAt(position))
	if err != nil {
		return nil, position, err
	}
	return rec, position + 1, nil
}

// All returns an iterator over (position, record) pairs, starting from
// position 0. Iteration stops at the first decode failure.
func (r *Reader) All() iter.Seq2[int, *StoredRecord] {
	return func(yield func(int, *StoredRecord) bool) {
		position := 0
		for {
			rec, next, err := r.GetRecord(position)
			if err != nil || rec == nil {
				return
			}
			if !yield(position, rec) {
				return
			}
			position = next
		}
	}
}

func (r *Reader) offsetAt(i int) uint64 {
	return binary.LittleEndian.Uint64(r.index[i*blockio.Uint64Size:])
}

// Close unmaps and closes the underlying file. Records obtained from the
// reader must not be used afterwards. Close is idempotent.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	err := r.mapped.Unmap()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}
