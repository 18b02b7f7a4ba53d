package blockio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Fixed widths of the integer encodings, in bytes.
const (
	Uint16Size = 2
	Uint32Size = 4
	Uint64Size = 8
)

// ErrShortBuffer is returned by SliceReader when a read runs past the end of
// the underlying buffer.
var ErrShortBuffer = errors.New("blockio: read past end of buffer")

// BlockWriter writes little-endian fixed-width integers and raw byte runs to
// an underlying writer, tracking the total number of bytes written so callers
// can record block offsets without seeking.
type BlockWriter struct {
	w io.Writer
	n int64
}

func NewBlockWriter(w io.Writer) *BlockWriter {
	return &BlockWriter{w: w}
}

// Offset returns the number of bytes written so far.
func (bw *BlockWriter) Offset() int64 {
	return bw.n
}

func (bw *BlockWriter) WriteUint16(v uint16) error {
	if err := binary.Write(bw.w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("blockio: error writing uint16: %w", err)
	}
	bw.n += Uint16Size
	return nil
}

func (bw *BlockWriter) WriteUint32(v uint32) error {
	if err := binary.Write(bw.w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("blockio: error writing uint32: %w", err)
	}
	bw.n += Uint32Size
	return nil
}

func (bw *BlockWriter) WriteUint64(v uint64) error {
	if err := binary.Write(bw.w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("blockio: error writing uint64: %w", err)
	}
	bw.n += Uint64Size
	return nil
}

// WriteBytes writes b verbatim, with no length prefix.
func (bw *BlockWriter) WriteBytes(b []byte) error {
	n, err := bw.w.Write(b)
	bw.n += int64(n)
	if err != nil {
		return fmt.Errorf("blockio: error writing bytes: %w", err)
	}
	return nil
}

// SliceReader decodes little-endian values from an in-memory buffer without
// copying. Byte reads return sub-slices of the underlying buffer, so the
// buffer must outlive anything decoded from it.
type SliceReader struct {
	buf []byte
	off int
}

func NewSliceReader(b []byte) *SliceReader {
	return &SliceReader{buf: b}
}

// Remaining returns the number of unread bytes.
func (r *SliceReader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *SliceReader) ReadUint16() (uint16, error) {
	if r.Remaining() < Uint16Size {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += Uint16Size
	return v, nil
}

func (r *SliceReader) ReadUint32() (uint32, error) {
	if r.Remaining() < Uint32Size {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += Uint32Size
	return v, nil
}

func (r *SliceReader) ReadUint64() (uint64, error) {
	if r.Remaining() < Uint64Size {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += Uint64Size
	return v, nil
}

// ReadBytes returns the next n bytes of the buffer without copying.
func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}
