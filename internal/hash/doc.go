// Package hash provides the CRC32-Castagnoli checksum used to pre-filter
// pixel comparisons.
//
// The checksum is a cheap inequality test only: two photos with different
// checksums are certainly different, two photos with equal checksums still
// need a full sample comparison.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	sum := h.Sum32()
package hash
