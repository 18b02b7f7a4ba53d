package ledgerfile

import (
	"errors"

	"github.com/davidvella/ledgerfile/accountfile"
)

// Errors returned by Store operations. Validation failures raised while
// opening a file for reading surface the accountfile sentinels unchanged so
// callers can match them from either package.
var (
	// ErrAlreadySealed is returned by a write attempted on a handle whose
	// one write pass has already run, successfully or not.
	ErrAlreadySealed = errors.New("ledgerfile: attempt to update a read-only store")

	// ErrStoreClosed is returned by a write attempted after Close; a closed
	// store no longer owns a backing file to write into.
	ErrStoreClosed = errors.New("ledgerfile: store already closed")

	ErrUnknownFormat = accountfile.ErrUnknownFormat
	ErrInvalidFooter = accountfile.ErrInvalidFooter
	ErrInvalidMagic  = accountfile.ErrInvalidMagic
)
