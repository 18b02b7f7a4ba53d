package accountfile

import (
	"fmt"

	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/blockio"
)

// File format constants.
const (
	// magicNumber closes every well-formed file; the bytes read "LEDGFILE".
	// It detects truncation and corruption, not versioning.
	magicNumber uint64 = 0x454c49464744454c

	footerSize = 56
	magicSize  = blockio.Uint64Size

	// TrailerSize is the fixed number of bytes at the end of every file:
	// the footer followed by the magic number. A sealed file holding zero
	// records is exactly this long.
	TrailerSize = footerSize + magicSize
)

// Footer is the fixed-size trailer written after all blocks. It is the single
// source of truth for how the rest of the file is laid out and is always
// located by a fixed-size read from the end of the file.
type Footer struct {
	Format Format

	OwnersOffset uint64
	OwnersLength uint64
	IndexOffset  uint64
	IndexLength  uint64
	RecordCount  uint64
}

// encode appends the footer and the trailing magic number.
func (ft Footer) encode(bw *blockio.BlockWriter) error {
	if err := bw.WriteUint64(ft.Format.MetaEntrySize); err != nil {
		return err
	}
	if err := bw.WriteUint16(uint16(ft.Format.Meta)); err != nil {
		return err
	}
	if err := bw.WriteUint16(uint16(ft.Format.Owners)); err != nil {
		return err
	}
	if err := bw.WriteUint16(uint16(ft.Format.Index)); err != nil {
		return err
	}
	if err := bw.WriteUint16(uint16(ft.Format.Data)); err != nil {
		return err
	}
	if err := bw.WriteUint64(ft.OwnersOffset); err != nil {
		return err
	}
	if err := bw.WriteUint64(ft.OwnersLength); err != nil {
		return err
	}
	if err := bw.WriteUint64(ft.IndexOffset); err != nil {
		return err
	}
	if err := bw.WriteUint64(ft.IndexLength); err != nil {
		return err
	}
	if err := bw.WriteUint64(ft.RecordCount); err != nil {
		return err
	}
	return bw.WriteUint64(magicNumber)
}

// decodeFooter parses the trailer from the final TrailerSize bytes of a file.
func decodeFooter(tail []byte) (Footer, error) {
	if len(tail) != TrailerSize {
		return Footer{}, fmt.Errorf("%w: trailer is %d bytes, want %d", ErrInvalidFooter, len(tail), TrailerSize)
	}

	sr := blockio.NewSliceReader(tail[footerSize:])
	magic, err := sr.ReadUint64()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidMagic, err)
	}
	if magic != magicNumber {
		return Footer{}, fmt.Errorf("%w: got %#x", ErrInvalidMagic, magic)
	}

	var ft Footer
	sr = blockio.NewSliceReader(tail[:footerSize])
	metaSize, err := sr.ReadUint64()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}
	ft.Format.MetaEntrySize = metaSize

	meta, err := sr.ReadUint16()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}
	owners, err := sr.ReadUint16()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}
	index, err := sr.ReadUint16()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}
	data, err := sr.ReadUint16()
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}
	ft.Format.Meta = MetaFormat(meta)
	ft.Format.Owners = OwnersFormat(owners)
	ft.Format.Index = IndexFormat(index)
	ft.Format.Data = DataFormat(data)

	for _, dst := range []*uint64{
		&ft.OwnersOffset, &ft.OwnersLength,
		&ft.IndexOffset, &ft.IndexLength,
		&ft.RecordCount,
	} {
		if *dst, err = sr.ReadUint64(); err != nil {
			return Footer{}, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
		}
	}
	return ft, nil
}

// validate checks that every offset and length in the footer lies inside a
// file of the given size and that the blocks are ordered, contiguous with the
// trailer and mutually consistent.
func (ft Footer) validate(fileSize int64) error {
	if err := ft.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}

	blocksEnd := uint64(fileSize) - TrailerSize

	if ft.OwnersOffset > blocksEnd {
		return fmt.Errorf("%w: owners offset %d past end of blocks %d", ErrInvalidFooter, ft.OwnersOffset, blocksEnd)
	}
	ownersEnd := ft.OwnersOffset + ft.OwnersLength
	if ownersEnd < ft.OwnersOffset || ownersEnd > blocksEnd {
		return fmt.Errorf("%w: owners block [%d,%d) out of range", ErrInvalidFooter, ft.OwnersOffset, ownersEnd)
	}
	if ft.IndexOffset < ownersEnd {
		return fmt.Errorf("%w: index block at %d overlaps owners block ending at %d", ErrInvalidFooter, ft.IndexOffset, ownersEnd)
	}
	indexEnd := ft.IndexOffset + ft.IndexLength
	if indexEnd < ft.IndexOffset || indexEnd != blocksEnd {
		return fmt.Errorf("%w: index block [%d,%d) does not end at trailer %d", ErrInvalidFooter, ft.IndexOffset, indexEnd, blocksEnd)
	}
	if ft.OwnersLength%account.AddressSize != 0 {
		return fmt.Errorf("%w: owners length %d not a multiple of %d", ErrInvalidFooter, ft.OwnersLength, account.AddressSize)
	}
	// Divide rather than multiply: a corrupt record count must not be able
	// to wrap the product back onto the real index length.
	if ft.IndexLength%blockio.Uint64Size != 0 || ft.RecordCount != ft.IndexLength/blockio.Uint64Size {
		return fmt.Errorf("%w: index length %d for %d records", ErrInvalidFooter, ft.IndexLength, ft.RecordCount)
	}
	return nil
}
