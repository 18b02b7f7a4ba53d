// Package account defines the record view consumed by the storage engine.
//
// An account is presented to the writer as an Entry: a Record view exposing
// balance, owner address, payload bytes and the executable flag, together
// with the account's own address, an optional precomputed content hash and a
// write-ordering version. Hashing is always performed by the caller; this
// package only carries the result.
//
// Basic usage:
//
//	entry := account.Entry{
//	    Address: account.AddressFromBytes(addressBytes),
//	    Account: account.RecordImpl{
//	        Balance: 100,
//	        Owner:   owner,
//	        Data:    []byte("payload"),
//	    },
//	    WriteVersion: 7,
//	}
package account
