// Package image contains the AIO container data model and the merge engine.
//
// An AIO container starts with a 32-byte container header followed by one
// 80-byte entry header per embedded firmware, followed by the firmware
// payloads themselves. All multi-byte integers are little-endian. Reserved
// and unspecified header bytes are 0xFF, except the 12 pad bytes after each
// entry CRC, which are zero.
//
// Merge is a single stateless batch transform: resolve placement offsets in
// input order, compose all payloads into one buffer (later entries overwrite
// earlier ones where ranges intersect), checksum each entry over the final
// buffer content, then serialize the headers over the leading region.
package image
