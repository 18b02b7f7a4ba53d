// Package ledgerfile provides write-once, sealed storage files for account
// state. A Store binds a filesystem path to either a writable (not yet
// written) state or a sealed (read-only) state: the single write entry point
// streams a batch of account records into the binary container implemented by
// package accountfile, then atomically installs a memory-mapped reader over
// the freshly written file. The transition is one-way and happens at most
// once per Store.
//
// Basic usage:
//
//	store := ledgerfile.NewWritable(path)
//	defer store.Close()
//
//	infos, err := store.Write(batch, 0, accountfile.RawFormat)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reader := store.Reader()
//	for pos, rec := range reader.All() {
//	    // Process record
//	}
//
// A Store owns its backing file: Close removes it from the filesystem unless
// Keep was called first.
package ledgerfile

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davidvella/ledgerfile/accountfile"
)

// Store binds a path to at most one write pass and the sealed file that pass
// produces. The zero value is not usable; construct one with NewWritable or
// OpenReadonly.
type Store struct {
	path string
	opts options

	mu      sync.Mutex
	written bool
	kept    bool
	closed  bool

	reader atomic.Pointer[accountfile.Reader]
}

// NewWritable returns a writable Store for path. No filesystem I/O happens
// until Write is called; the backing file does not exist yet.
func NewWritable(path string, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{path: path, opts: o}
}

// OpenReadonly opens an existing sealed file and returns a Store already in
// the sealed state. It fails with a validation error if the file's footer or
// magic number is missing or inconsistent.
func OpenReadonly(path string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reader, err := accountfile.OpenReader(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path, opts: o, written: true}
	s.reader.Store(reader)
	return s, nil
}

// Write streams batch[startIndex:] into the backing file and seals the
// store, installing a reader over the just-written file. It may be called at
// most once per Store: any later call fails with ErrAlreadySealed whether or
// not this one succeeded, and never touches the file again. Concurrent calls
// are race-free; exactly one does real work.
//
// An unrecognized format is rejected with ErrUnknownFormat before any I/O
// and before the store's single write pass is consumed. A write attempted
// after Close fails with ErrStoreClosed without recreating the file.
func (s *Store) Write(batch accountfile.Batch, startIndex int, format accountfile.Format) ([]accountfile.StoredInfo, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrStoreClosed, s.path)
	}
	if s.written {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadySealed, s.path)
	}
	s.written = true
	s.mu.Unlock()

	start := time.Now()
	infos, err := accountfile.WriteFile(s.path, batch, startIndex, format)
	if err != nil {
		return nil, err
	}

	reader, err := accountfile.OpenReader(s.path)
	if err != nil {
		return nil, err
	}
	s.reader.Store(reader)

	s.opts.logger.Info().
		Str("path", s.path).
		Int("records", len(infos)).
		Dur("elapsed", time.Since(start)).
		Msg("sealed account storage file")

	return infos, nil
}

// Reader returns the installed reader, or nil while the store is still
// writable. Once non-nil the reader is immutable and safe for concurrent use.
func (s *Store) Reader() *accountfile.Reader {
	return s.reader.Load()
}

// IsSealed reports whether a reader has been installed.
func (s *Store) IsSealed() bool {
	return s.reader.Load() != nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// FileSize returns the size of the backing file. A file that does not exist
// yet has size 0; that is not an error.
func (s *Store) FileSize() (int64, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledgerfile: failed to stat %s: %w", s.path, err)
	}
	return info.Size(), nil
}

// Keep disarms the destruction-time cleanup: after Keep, Close leaves the
// backing file on disk.
func (s *Store) Keep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kept = true
}

// Close releases the reader, if one was installed, and removes the backing
// file unless Keep was called. The store is the sole owner of its path, so a
// removal failure means in-memory bookkeeping has diverged from the
// filesystem; that is unrecoverable and Close panics rather than letting it
// pass. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if reader := s.reader.Load(); reader != nil {
		err = reader.Close()
	}

	if s.kept {
		return err
	}
	if rerr := os.Remove(s.path); rerr != nil && !os.IsNotExist(rerr) {
		panic(fmt.Sprintf("ledgerfile: failed to remove backing storage file %s: %v", s.path, rerr))
	}
	s.opts.logger.Debug().Str("path", s.path).Msg("removed backing storage file")
	return err
}
