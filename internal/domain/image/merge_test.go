package image

import (
	"bytes"
	"hash/crc32"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// ptr returns a pointer to the given offset for requested-placement entries.
func ptr(v int64) *int64 {
	return &v
}

// TestHeaderSize verifies the fixed layout rule for several entry counts.
func TestHeaderSize(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 0x70, HeaderSize(1))
	require.EqualValues(t, 0x110, HeaderSize(3))
	require.EqualValues(t, 0x20+255*0x50, HeaderSize(255))
}

// TestMerge_EntryCountBounds checks rejection of empty and oversized lists.
func TestMerge_EntryCountBounds(t *testing.T) {
	t.Parallel()

	_, err := Merge(nil)
	require.ErrorIs(t, err, ErrNoEntries)

	entries := make([]*Entry, MaxEntries+1)
	for i := range entries {
		entries[i] = &Entry{Data: []byte{0x01}}
	}

	_, err = Merge(entries)
	require.ErrorIs(t, err, ErrTooManyEntries)
}

// TestResolveOffsets_Rules covers the three placement rules: auto-append,
// clamp-up for offsets inside the header region, and verbatim placement.
func TestResolveOffsets_Rules(t *testing.T) {
	t.Parallel()

	entries := []*Entry{
		{Data: bytes.Repeat([]byte{0x11}, 16)},                      // auto
		{Data: bytes.Repeat([]byte{0x22}, 8), Offset: ptr(0x10)},    // below headers
		{Data: bytes.Repeat([]byte{0x33}, 4), Offset: ptr(0x4000)},  // verbatim
		{Data: bytes.Repeat([]byte{0x44}, 4)},                       // auto after high end
	}

	img, err := Merge(entries)
	require.NoError(t, err)

	headerSize := HeaderSize(len(entries))
	require.Equal(t, headerSize, img.HeaderSize)

	require.Equal(t, headerSize, entries[0].ResolvedOffset)
	require.Equal(t, headerSize, entries[1].ResolvedOffset)
	require.EqualValues(t, 0x4000, entries[2].ResolvedOffset)

	// Auto-append goes after the highest end-of-data seen so far, not after
	// the first entry's end.
	require.EqualValues(t, 0x4004, entries[3].ResolvedOffset)

	for _, entry := range entries {
		require.GreaterOrEqual(t, entry.ResolvedOffset, headerSize)
	}

	require.EqualValues(t, 0x4008, img.TotalSize)
	require.Len(t, img.Data, int(img.TotalSize))
}

// TestMerge_LaterEntryWinsOnOverlap checks byte-for-byte overwrite in input
// order and that checksums describe the final, post-overlap content.
func TestMerge_LaterEntryWinsOnOverlap(t *testing.T) {
	t.Parallel()

	headerSize := HeaderSize(2)

	first := &Entry{
		Path: "first.bin",
		Data: bytes.Repeat([]byte{0xAA}, 16),
	}
	second := &Entry{
		Path:   "second.bin",
		Offset: ptr(headerSize + 4),
		Data:   bytes.Repeat([]byte{0xBB}, 8),
	}

	img, err := Merge([]*Entry{first, second})
	require.NoError(t, err)

	// First four bytes belong to the first entry, the overlapped window to
	// the second.
	require.Equal(t, first.Data[:4], img.Data[headerSize:headerSize+4])
	require.Equal(t, second.Data, img.Data[headerSize+4:headerSize+12])

	// CRCs are computed over the final buffer slices, so the first entry's
	// checksum reflects the overwrite damage.
	finalFirst := img.Data[first.ResolvedOffset : first.ResolvedOffset+first.Size]
	require.Equal(t, crc32.ChecksumIEEE(finalFirst), first.CRC)
	require.NotEqual(t, crc32.ChecksumIEEE(first.Data), first.CRC)
	require.Equal(t, crc32.ChecksumIEEE(second.Data), second.CRC)
}

// TestMerge_HeadersBeatPayload places an entry over the header region via
// clamping and verifies serialized headers still win there.
func TestMerge_HeadersBeatPayload(t *testing.T) {
	t.Parallel()

	entry := &Entry{
		Offset: ptr(0),
		Data:   bytes.Repeat([]byte{0xCC}, 0x100),
	}

	img, err := Merge([]*Entry{entry})
	require.NoError(t, err)

	require.Equal(t, []byte(Magic), img.Data[:4])
	require.Equal(t, img.HeaderSize, entry.ResolvedOffset)
	require.Equal(t, byte(0xCC), img.Data[img.HeaderSize])
}

// TestMerge_RangeOverflow rejects entries that do not fit 32-bit fields,
// including offsets so large that offset+size would wrap int64.
func TestMerge_RangeOverflow(t *testing.T) {
	t.Parallel()

	entry := &Entry{
		Offset: ptr(0xFFFFFFFF),
		Data:   []byte{0x01, 0x02},
	}

	_, err := Merge([]*Entry{entry})
	require.ErrorIs(t, err, ErrRangeOverflow)

	// An offset at the int64 ceiling must error, not wrap negative and
	// panic during composition.
	entry = &Entry{
		Offset: ptr(math.MaxInt64),
		Data:   []byte{0x01},
	}

	_, err = Merge([]*Entry{entry})
	require.ErrorIs(t, err, ErrRangeOverflow)
}

// TestChecksum pins the CRC-32 algorithm to the reflected 0xEDB88320
// polynomial via a known vector.
func TestChecksum(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
	require.Equal(t, uint32(0), Checksum(nil))
}
