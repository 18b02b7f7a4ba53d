package accountfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/davidvella/ledgerfile/account"
	"github.com/davidvella/ledgerfile/blockio"
	"github.com/klauspost/compress/s2"
)

const defaultBufSize = 52 * 1024

// Batch is the input contract of a write pass: an ordered, indexable
// collection of entries presented up front by the caller.
type Batch interface {
	Len() int
	Entry(i int) account.Entry
}

// StoredInfo describes where one record landed during a write pass.
type StoredInfo struct {
	Address account.Address

	// Offset is the byte offset of the record's metadata within the
	// (uncompressed) data block.
	Offset int64

	// Size is the record's encoded size in the data block.
	Size int64
}

// WriteFile materializes a new sealed file at path from batch[startIndex:].
// The file must not already exist. A batch of zero records still produces a
// valid sealed file consisting of exactly the footer and magic number.
func WriteFile(path string, batch Batch, startIndex int, format Format) ([]StoredInfo, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("accountfile: failed to create %s: %w", path, err)
	}

	infos, err := write(f, batch, startIndex, format)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("accountfile: failed to write %s: %w", path, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return nil, fmt.Errorf("accountfile: failed to sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("accountfile: failed to close %s: %w", path, err)
	}
	return infos, nil
}

// write streams the batch into f: data block, owners block, index block,
// footer, magic number, in that order, in a single pass.
func write(f *os.File, batch Batch, startIndex int, format Format) ([]StoredInfo, error) {
	buf := bufio.NewWriterSize(f, defaultBufSize)
	out := blockio.NewBlockWriter(buf)

	// The data block is encoded through dataBW. For the raw format that is
	// the file itself; for the compressed format records are staged in
	// memory and compressed as one blob once the pass is done.
	var (
		dataBW  = out
		staging *bytes.Buffer
	)
	if format.Data == DataS2V1 {
		staging = new(bytes.Buffer)
		dataBW = blockio.NewBlockWriter(staging)
	}

	var (
		n          = batch.Len()
		infos      = make([]StoredInfo, 0, max(n-startIndex, 0))
		index      = make([]uint64, 0, max(n-startIndex, 0))
		owners     = make([]account.Address, 0)
		ownerIndex = make(map[account.Address]uint32)
	)

	for i := startIndex; i < n; i++ {
		entry := batch.Entry(i)

		// A missing account view stores an empty record under the zero
		// "no owner" address.
		var owner account.Address
		if entry.Account != nil {
			owner = entry.Account.GetOwner()
		}
		idx, seen := ownerIndex[owner]
		if !seen {
			idx = uint32(len(owners))
			ownerIndex[owner] = idx
			owners = append(owners, owner)
		}

		offset := dataBW.Offset()
		if err := encodeRecord(dataBW, entry, idx); err != nil {
			return nil, err
		}
		index = append(index, uint64(offset))
		infos = append(infos, StoredInfo{
			Address: entry.Address,
			Offset:  offset,
			Size:    dataBW.Offset() - offset,
		})
	}

	// Nothing staged means no data block at all, so a zero-record file is
	// exactly the trailer regardless of format.
	if staging != nil && staging.Len() > 0 {
		if err := out.WriteBytes(s2.Encode(nil, staging.Bytes())); err != nil {
			return nil, err
		}
	}

	ft := Footer{
		Format:       format,
		OwnersOffset: uint64(out.Offset()),
		OwnersLength: uint64(len(owners) * account.AddressSize),
		RecordCount:  uint64(len(index)),
	}
	for _, owner := range owners {
		if err := out.WriteBytes(owner[:]); err != nil {
			return nil, err
		}
	}

	ft.IndexOffset = uint64(out.Offset())
	ft.IndexLength = uint64(len(index) * blockio.Uint64Size)
	for _, offset := range index {
		if err := out.WriteUint64(offset); err != nil {
			return nil, err
		}
	}

	if err := ft.encode(out); err != nil {
		return nil, err
	}
	if err := buf.Flush(); err != nil {
		return nil, err
	}
	return infos, nil
}
