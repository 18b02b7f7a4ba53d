package account

import (
	"bytes"
	"encoding/hex"
)

// AddressSize is the length in bytes of an account or owner address.
const AddressSize = 32

// HashSize is the length in bytes of an account content hash.
const HashSize = 32

// Address identifies an account or an owner program.
type Address [AddressSize]byte

// AddressFromBytes copies b into an Address. Short input is zero-padded,
// longer input is truncated.
func AddressFromBytes(b []byte) Address {
	var a Address
	copy(a[:], b)
	return a
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Less orders addresses lexicographically by their raw bytes.
func (a Address) Less(other Address) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// Hash is a precomputed content hash supplied alongside an account at write
// time. The storage engine never computes hashes itself.
type Hash [HashSize]byte

// HashFromBytes copies b into a Hash.
func HashFromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Record is a read-only view of one account's state.
type Record interface {
	GetBalance() uint64
	GetOwner() Address
	GetData() []byte
	IsExecutable() bool
}

// RecordImpl is a plain value implementation of Record.
type RecordImpl struct {
	Balance    uint64
	Owner      Address
	Data       []byte
	Executable bool
}

func (r RecordImpl) GetBalance() uint64 {
	return r.Balance
}

func (r RecordImpl) GetOwner() Address {
	return r.Owner
}

func (r RecordImpl) GetData() []byte {
	return r.Data
}

func (r RecordImpl) IsExecutable() bool {
	return r.Executable
}

// Entry is one element of a write batch: the account view plus the
// externally supplied address, optional content hash and write-ordering
// version for that position of the batch.
type Entry struct {
	Address      Address
	Account      Record
	Hash         *Hash
	WriteVersion uint64
}

// Less orders entries by address.
func (e Entry) Less(other Entry) bool {
	return e.Address.Less(other.Address)
}
