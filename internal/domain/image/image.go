package image

import "hash/crc32"

const (
	// Magic identifies an AIO container file.
	Magic = "AIOH"

	// ContainerHeaderSize is the fixed size of the leading container header.
	ContainerHeaderSize = 0x20

	// EntryHeaderSize is the fixed size of each per-firmware entry header.
	EntryHeaderSize = 0x50

	// MaxEntries is the largest entry count the container can describe:
	// entry_count occupies a single byte.
	MaxEntries = 255

	// formatVersion is the container format version written to every image.
	formatVersion uint16 = 0x0001

	// deviceType marks the target device class.
	deviceType byte = 0x01

	// firmwareVersionStub is the container-level firmware version placeholder.
	firmwareVersionStub uint32 = 0x12345678

	// updateControl selects the default update behavior on the device.
	updateControl byte = 0x00
)

// Entry is one firmware blob to place into the merged image.
//
// Path, Offset and Data are caller input; ResolvedOffset, Size and CRC are
// filled by Merge during a single call and never mutated afterward.
type Entry struct {
	// Path is the source file the payload was read from, kept for reporting.
	Path string
	// Offset is the requested placement. Nil means auto-append: the entry
	// goes after the highest end-of-data seen so far.
	Offset *int64
	// Data is the raw payload.
	Data []byte

	// ResolvedOffset is the final placement chosen by the offset resolver.
	ResolvedOffset int64
	// Size is the payload length in bytes.
	Size int64
	// CRC is the checksum of the final buffer content at the entry's range.
	CRC uint32
}

// Image is the result of one merge: the full container buffer plus the two
// sizes callers report to the user.
type Image struct {
	// Data is the complete container, headers included.
	Data []byte
	// HeaderSize is the size of the leading header region.
	HeaderSize int64
	// TotalSize is the full image size, max(HeaderSize, highest entry end).
	TotalSize int64
}

// HeaderSize returns the size of the header region for the given entry
// count: a container header plus one entry header per entry. It is fixed
// before offset resolution begins and never recomputed mid-merge.
func HeaderSize(entryCount int) int64 {
	return ContainerHeaderSize + EntryHeaderSize*int64(entryCount)
}

// Checksum computes the CRC-32 (reflected polynomial 0xEDB88320) of data.
// It is exported so pre-flight tooling can reproduce entry checksums.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
