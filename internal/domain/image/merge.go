package image

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoEntries is returned when Merge is called with an empty entry list.
	ErrNoEntries = errors.New("at least one entry is required")
	// ErrTooManyEntries is returned when the entry count does not fit the
	// container's single-byte entry_count field.
	ErrTooManyEntries = errors.New("too many entries for one container")
	// ErrRangeOverflow is returned when a resolved entry range does not fit
	// the 32-bit offset and size header fields.
	ErrRangeOverflow = errors.New("entry range exceeds 32-bit container limits")
)

// Merge transforms the entry list into a complete container image.
//
// It resolves offsets in input order, composes every payload into one buffer
// with later entries overwriting earlier ones where ranges intersect,
// checksums each entry over the buffer's final content at its range, and
// finally serializes the headers over [0, HeaderSize). Composition always
// finishes for all entries before any checksum is computed: an entry's CRC
// describes the bytes that actually occupy its window, overwrites included.
//
// Merge fills ResolvedOffset, Size and CRC on the given entries in place.
func Merge(entries []*Entry) (*Image, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if len(entries) > MaxEntries {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(entries), MaxEntries)
	}

	headerSize := HeaderSize(len(entries))
	resolveOffsets(entries, headerSize)

	totalSize := headerSize

	for _, entry := range entries {
		// Check the operands separately: summing first could wrap int64 for
		// offsets near MaxInt64 and slip past the limit.
		if entry.ResolvedOffset > math.MaxUint32 || entry.Size > math.MaxUint32-entry.ResolvedOffset {
			return nil, fmt.Errorf("%w: %s at %#x, %#x bytes",
				ErrRangeOverflow, entry.Path, entry.ResolvedOffset, entry.Size)
		}

		if end := entry.ResolvedOffset + entry.Size; end > totalSize {
			totalSize = end
		}
	}

	buffer := make([]byte, totalSize)

	// Composition pass: strict input order, later entries win byte-for-byte.
	for _, entry := range entries {
		copy(buffer[entry.ResolvedOffset:entry.ResolvedOffset+entry.Size], entry.Data)
	}

	// Checksum pass, only after composition is complete for all entries.
	for _, entry := range entries {
		entry.CRC = Checksum(buffer[entry.ResolvedOffset : entry.ResolvedOffset+entry.Size])
	}

	serializeHeaders(buffer, headerSize, entries)

	return &Image{
		Data:       buffer,
		HeaderSize: headerSize,
		TotalSize:  totalSize,
	}, nil
}

// resolveOffsets assigns final placement offsets in input order.
//
// The cursor starts at the header boundary and tracks the end of the last
// placed entry. A nil requested offset auto-appends after the highest
// end-of-data seen so far; an explicit offset below the header region is
// clamped up to it; any other explicit offset is honored verbatim even if
// it lands inside another entry's range.
func resolveOffsets(entries []*Entry, headerSize int64) {
	cursor := headerSize

	for _, entry := range entries {
		var offset int64

		switch {
		case entry.Offset == nil:
			offset = max(cursor, headerSize)
		case *entry.Offset < headerSize:
			offset = headerSize
		default:
			offset = *entry.Offset
		}

		entry.ResolvedOffset = offset
		entry.Size = int64(len(entry.Data))
		cursor = offset + entry.Size
	}
}

// serializeHeaders writes the container header and one entry header per
// entry into buffer[0:headerSize], overwriting any payload bytes there.
func serializeHeaders(buffer []byte, headerSize int64, entries []*Entry) {
	putContainerHeader(buffer, headerSize, len(entries))

	identity := defaultDeviceIdentity()
	for i, entry := range entries {
		start := ContainerHeaderSize + int64(i)*EntryHeaderSize
		putEntryHeader(buffer[start:start+EntryHeaderSize], identity, entry)
	}
}
