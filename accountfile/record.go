package accountfile

import (
	"fmt"

	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/blockio"
)

// Metadata flag bits.
const (
	flagExecutable = 1 << 0
	flagHasHash    = 1 << 1
)

// StoredRecord is a decoded account record. Its payload and hash alias the
// reader's data block rather than copying it, so a StoredRecord must not be
// used after the reader that produced it is closed.
type StoredRecord struct {
	address      account.Address
	balance      uint64
	writeVersion uint64
	ownerIndex   uint32
	flags        uint32
	hash         []byte
	data         []byte
}

// Address returns the account's address.
func (r *StoredRecord) Address() account.Address {
	return r.address
}

// Balance returns the account's balance.
func (r *StoredRecord) Balance() uint64 {
	return r.balance
}

// WriteVersion returns the write-ordering version supplied when the record
// was stored.
func (r *StoredRecord) WriteVersion() uint64 {
	return r.writeVersion
}

// OwnerIndex returns the record's position in the owners block. Resolve it
// with Reader.OwnerAt.
func (r *StoredRecord) OwnerIndex() uint32 {
	return r.ownerIndex
}

// Executable reports whether the account holds executable code.
func (r *StoredRecord) Executable() bool {
	return r.flags&flagExecutable != 0
}

// Hash returns the stored content hash, if one was supplied at write time.
func (r *StoredRecord) Hash() (account.Hash, bool) {
	if r.flags&flagHasHash == 0 {
		return account.Hash{}, false
	}
	return account.HashFromBytes(r.hash), true
}

// Data returns the payload bytes, aliasing the reader's data block.
func (r *StoredRecord) Data() []byte {
	return r.data
}

// encodeRecord appends one entry to the data block.
func encodeRecord(bw *blockio.BlockWriter, e account.Entry, ownerIndex uint32) error {
	var (
		data  []byte
		flags uint32
	)
	if e.Account != nil {
		data = e.Account.GetData()
		if e.Account.IsExecutable() {
			flags |= flagExecutable
		}
	}
	if e.Hash != nil {
		flags |= flagHasHash
	}

	var balance uint64
	if e.Account != nil {
		balance = e.Account.GetBalance()
	}
	if err := bw.WriteUint64(balance); err != nil {
		return err
	}
	if err := bw.WriteUint64(e.WriteVersion); err != nil {
		return err
	}
	if err := bw.WriteUint64(uint64(len(data))); err != nil {
		return err
	}
	if err := bw.WriteUint32(ownerIndex); err != nil {
		return err
	}
	if err := bw.WriteUint32(flags); err != nil {
		return err
	}
	if err := bw.WriteBytes(e.Address[:]); err != nil {
		return err
	}
	if e.Hash != nil {
		if err := bw.WriteBytes(e.Hash[:]); err != nil {
			return err
		}
	}
	return bw.WriteBytes(data)
}

// decodeRecord parses the record whose metadata starts at offset within the
// data block. The returned record borrows from block.
func decodeRecord(block []byte, offset uint64) (*StoredRecord, error) {
	if offset > uint64(len(block)) {
		return nil, fmt.Errorf("%w: record offset %d past data block of %d bytes", ErrInvalidFooter, offset, len(block))
	}

	sr := blockio.NewSliceReader(block[offset:])
	rec := new(StoredRecord)

	var err error
	if rec.balance, err = sr.ReadUint64(); err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	if rec.writeVersion, err = sr.ReadUint64(); err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	dataLen, err := sr.ReadUint64()
	if err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	if rec.ownerIndex, err = sr.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	if rec.flags, err = sr.ReadUint32(); err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}

	addr, err := sr.ReadBytes(account.AddressSize)
	if err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	rec.address = account.AddressFromBytes(addr)

	if rec.flags&flagHasHash != 0 {
		if rec.hash, err = sr.ReadBytes(account.HashSize); err != nil {
			return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
		}
	}
	if dataLen > uint64(sr.Remaining()) {
		return nil, fmt.Errorf("%w: record at %d: payload of %d bytes overruns data block", ErrInvalidFooter, offset, dataLen)
	}
	if rec.data, err = sr.ReadBytes(int(dataLen)); err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrInvalidFooter, offset, err)
	}
	return rec, nil
}
