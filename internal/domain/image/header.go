package image

import "encoding/binary"

// Entry header field offsets within the 80-byte record.
const (
	entryVendorIDPos   = 0x00
	entryProductIDPos  = 0x22
	entryUniqueIDPos   = 0x24
	entryFirmwarePos   = 0x26
	entryDataOffsetPos = 0x28
	entryDataSizePos   = 0x2C
	entryCRCPos        = 0x30
	entryCRCPadLen     = 12
)

// Container header field offsets within the 32-byte record.
const (
	containerMagicPos    = 0x00
	containerVersionPos  = 0x04
	containerHdrSizePos  = 0x06
	containerDevTypePos  = 0x08
	containerFirmwarePos = 0x09
	containerUpdCtrlPos  = 0x0D
	containerCountPos    = 0x0E
)

// DeviceIdentity holds the per-entry identification fields the serializer
// writes into every entry header. The engine uses defaultDeviceIdentity for
// all entries; the fields live here, not in the layout logic, so making them
// caller-configurable later will not touch offset or overlap code.
type DeviceIdentity struct {
	// VendorID is the USB vendor id, serialized little-endian.
	VendorID uint16
	// ProductID is written verbatim, byte for byte.
	ProductID [2]byte
	// UniqueID is written verbatim, byte for byte.
	UniqueID [2]byte
	// FirmwareVersion is the entry-level version stub, written verbatim.
	FirmwareVersion [2]byte
}

// defaultDeviceIdentity returns the identity stamped into every entry
// header in this format version. Callers cannot override it.
func defaultDeviceIdentity() DeviceIdentity {
	return DeviceIdentity{
		VendorID:        0x04F3,
		ProductID:       [2]byte{0x08, 0x56},
		UniqueID:        [2]byte{0xFF, 0xFF},
		FirmwareVersion: [2]byte{0x34, 0x12},
	}
}

// putContainerHeader serializes the container header into dst, which must be
// at least ContainerHeaderSize bytes.
func putContainerHeader(dst []byte, headerSize int64, entryCount int) {
	fill(dst[:ContainerHeaderSize], 0xFF)

	copy(dst[containerMagicPos:], Magic)
	binary.LittleEndian.PutUint16(dst[containerVersionPos:], formatVersion)
	binary.LittleEndian.PutUint16(dst[containerHdrSizePos:], uint16(headerSize))
	dst[containerDevTypePos] = deviceType
	binary.LittleEndian.PutUint32(dst[containerFirmwarePos:], firmwareVersionStub)
	dst[containerUpdCtrlPos] = updateControl
	dst[containerCountPos] = byte(entryCount)
}

// putEntryHeader serializes one entry header into dst, which must be at
// least EntryHeaderSize bytes. Unspecified regions stay 0xFF; only the 12
// pad bytes after the CRC are zeroed.
func putEntryHeader(dst []byte, identity DeviceIdentity, entry *Entry) {
	fill(dst[:EntryHeaderSize], 0xFF)

	binary.LittleEndian.PutUint16(dst[entryVendorIDPos:], identity.VendorID)
	copy(dst[entryProductIDPos:], identity.ProductID[:])
	copy(dst[entryUniqueIDPos:], identity.UniqueID[:])
	copy(dst[entryFirmwarePos:], identity.FirmwareVersion[:])
	binary.LittleEndian.PutUint32(dst[entryDataOffsetPos:], uint32(entry.ResolvedOffset))
	binary.LittleEndian.PutUint32(dst[entryDataSizePos:], uint32(entry.Size))
	binary.LittleEndian.PutUint32(dst[entryCRCPos:], entry.CRC)
	fill(dst[entryCRCPos+4:entryCRCPos+4+entryCRCPadLen], 0x00)
}

// fill sets every byte of b to value.
func fill(b []byte, value byte) {
	for i := range b {
		b[i] = value
	}
}
