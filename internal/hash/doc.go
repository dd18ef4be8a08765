// Package hash provides the CRC32-Castagnoli (CRC32C) checksums used for
// snapshot integrity and S3 upload validation.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
//
// Go's crc32 package uses SSE4.2 / ARM CRC instructions when available.
package hash
