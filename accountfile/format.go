package accountfile

import (
	"errors"
	"fmt"
)

// Common errors returned by container operations.
var (
	ErrUnknownFormat = errors.New("accountfile: unknown format")
	ErrInvalidFooter = errors.New("accountfile: invalid footer")
	ErrInvalidMagic  = errors.New("accountfile: invalid magic number")
)

// MetaFormat identifies the encoding of the per-record metadata entries.
type MetaFormat uint16

// OwnersFormat identifies the encoding of the owners block.
type OwnersFormat uint16

// IndexFormat identifies the encoding of the index block.
type IndexFormat uint16

// DataFormat identifies the encoding of the account data block.
type DataFormat uint16

// Recognized encoding ids. Ids start at 1 so a zeroed footer never validates.
const (
	// MetaFixedV1 is a fixed 32-byte metadata entry followed by the account
	// address, an optional content hash and the payload bytes.
	MetaFixedV1 MetaFormat = 1

	// OwnersFlatV1 is a flat array of deduplicated 32-byte owner addresses.
	OwnersFlatV1 OwnersFormat = 1

	// IndexOffsetsV1 is a flat array of 8-byte data-block offsets, one per
	// record in write order; the slot number is the array position.
	IndexOffsetsV1 IndexFormat = 1

	// DataRawV1 stores the data block verbatim; reads are zero-copy against
	// the memory-mapped file.
	DataRawV1 DataFormat = 1

	// DataS2V1 stores the data block as a single S2-compressed blob. The
	// block is decoded once when the file is opened and reads are served
	// from the decoded buffer.
	DataS2V1 DataFormat = 2
)

// metaFixedV1Size is the encoded size of a MetaFixedV1 metadata entry.
const metaFixedV1Size = 32

// Format selects the concrete encodings used for the metadata entries, the
// owners block, the index block and the account data block. It is chosen by
// the caller at write time and persisted in the footer; the reader only
// accepts files whose footer carries encodings it recognizes.
type Format struct {
	MetaEntrySize uint64
	Meta          MetaFormat
	Owners        OwnersFormat
	Index         IndexFormat
	Data          DataFormat
}

// Canonical format descriptors.
var (
	// RawFormat is the default descriptor: every block stored verbatim.
	RawFormat = Format{
		MetaEntrySize: metaFixedV1Size,
		Meta:          MetaFixedV1,
		Owners:        OwnersFlatV1,
		Index:         IndexOffsetsV1,
		Data:          DataRawV1,
	}

	// CompressedFormat stores the account data block S2-compressed.
	CompressedFormat = Format{
		MetaEntrySize: metaFixedV1Size,
		Meta:          MetaFixedV1,
		Owners:        OwnersFlatV1,
		Index:         IndexOffsetsV1,
		Data:          DataS2V1,
	}
)

// Validate reports whether every encoding id in the descriptor is one the
// reader understands and the metadata entry size matches the metadata
// encoding.
func (f Format) Validate() error {
	if f.Meta != MetaFixedV1 {
		return fmt.Errorf("%w: meta format %d", ErrUnknownFormat, f.Meta)
	}
	if f.Owners != OwnersFlatV1 {
		return fmt.Errorf("%w: owners format %d", ErrUnknownFormat, f.Owners)
	}
	if f.Index != IndexOffsetsV1 {
		return fmt.Errorf("%w: index format %d", ErrUnknownFormat, f.Index)
	}
	if f.Data != DataRawV1 && f.Data != DataS2V1 {
		return fmt.Errorf("%w: data format %d", ErrUnknownFormat, f.Data)
	}
	if f.MetaEntrySize != metaFixedV1Size {
		return fmt.Errorf("%w: meta entry size %d", ErrUnknownFormat, f.MetaEntrySize)
	}
	return nil
}
