package ledgerfile_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davidvella/ledgerfile"
	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/accountfile"
	"github.com/davidvella/ledgerfile/batch"
)

// ExampleStore demonstrates the full lifecycle of a storage file: assemble a
// batch, write and seal it, then read every record back.
func ExampleStore() {
	dir, err := os.MkdirTemp("", "ledgerfile-*")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	owner := account.AddressFromBytes([]byte("token-program"))

	b := batch.New()
	b.Add(account.Entry{
		Address: account.AddressFromBytes([]byte{2}),
		Account: account.RecordImpl{
			Balance: 200,
			Owner:   owner,
			Data:    []byte("second"),
		},
		WriteVersion: 1,
	})
	b.Add(account.Entry{
		Address: account.AddressFromBytes([]byte{1}),
		Account: account.RecordImpl{
			Balance: 100,
			Owner:   owner,
			Data:    []byte("first"),
		},
		WriteVersion: 1,
	})

	store := ledgerfile.NewWritable(filepath.Join(dir, "accounts.dat"))
	defer store.Close()

	if _, err := store.Write(b, 0, accountfile.RawFormat); err != nil {
		fmt.Printf("Failed to write batch: %v\n", err)
		return
	}

	reader := store.Reader()
	fmt.Printf("records: %d\n", reader.RecordCount())
	for _, rec := range reader.All() {
		fmt.Printf("balance=%d data=%s\n", rec.Balance(), rec.Data())
	}

	// Output:
	// records: 2
	// balance=100 data=first
	// balance=200 data=second
}
