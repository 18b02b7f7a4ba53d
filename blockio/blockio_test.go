package blockio_test

import (
	"bytes"
	"testing"

	"github.com/davidvella/ledgerfile/blockio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockWriterTracksOffset(t *testing.T) {
	var buf bytes.Buffer
	bw := blockio.NewBlockWriter(&buf)

	require.NoError(t, bw.WriteUint16(0x0102))
	require.NoError(t, bw.WriteUint32(0x03040506))
	require.NoError(t, bw.WriteUint64(0x0708090a0b0c0d0e))
	require.NoError(t, bw.WriteBytes([]byte("abc")))

	assert.Equal(t, int64(2+4+8+3), bw.Offset())
	assert.Equal(t, bw.Offset(), int64(buf.Len()))

	// Little-endian: the low byte comes first.
	assert.Equal(t, byte(0x02), buf.Bytes()[0])
	assert.Equal(t, byte(0x06), buf.Bytes()[2])
}

func TestSliceReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := blockio.NewBlockWriter(&buf)
	require.NoError(t, bw.WriteUint16(42))
	require.NoError(t, bw.WriteUint32(43))
	require.NoError(t, bw.WriteUint64(44))
	require.NoError(t, bw.WriteBytes([]byte("payload")))

	sr := blockio.NewSliceReader(buf.Bytes())

	v16, err := sr.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(42), v16)

	v32, err := sr.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(43), v32)

	v64, err := sr.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(44), v64)

	b, err := sr.ReadBytes(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), b)
	assert.Equal(t, 0, sr.Remaining())
}

func TestSliceReaderBorrowsBuffer(t *testing.T) {
	buf := []byte("shared-backing-array")
	sr := blockio.NewSliceReader(buf)

	b, err := sr.ReadBytes(6)
	require.NoError(t, err)

	// Reads alias the buffer rather than copying it.
	buf[0] = 'S'
	assert.Equal(t, []byte("Shared"), b)
}

func TestSliceReaderShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		read func(sr *blockio.SliceReader) error
	}{
		{"uint16", func(sr *blockio.SliceReader) error { _, err := sr.ReadUint16(); return err }},
		{"uint32", func(sr *blockio.SliceReader) error { _, err := sr.ReadUint32(); return err }},
		{"uint64", func(sr *blockio.SliceReader) error { _, err := sr.ReadUint64(); return err }},
		{"bytes", func(sr *blockio.SliceReader) error { _, err := sr.ReadBytes(2); return err }},
		{"negative bytes", func(sr *blockio.SliceReader) error { _, err := sr.ReadBytes(-1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := blockio.NewSliceReader([]byte{0x01})
			assert.ErrorIs(t, tt.read(sr), blockio.ErrShortBuffer)
		})
	}
}
