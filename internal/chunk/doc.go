// Package chunk owns the chunk record wire contract.
//
// Ownership boundary:
// - 4-byte type tag validation and flag queries
// - record encode/decode (length | type | payload | crc)
// - stream read/write under memory limits
//
// Record layout, all integers big-endian:
//
//	0     4  length (payload byte count L)
//	4     4  type tag
//	8     L  payload
//	8+L   4  CRC-32 (IEEE) over type tag and payload
package chunk
