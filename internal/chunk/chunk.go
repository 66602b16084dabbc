package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

const (
	LengthLen   = 4
	ChecksumLen = 4
	// HeaderLen is the length field plus the type tag.
	HeaderLen = LengthLen + TypeLen
	// MinRecordLen is the size of a record with an empty payload.
	MinRecordLen = HeaderLen + ChecksumLen
	// MaxPayloadLen is the largest payload the length field can describe.
	MaxPayloadLen = 1<<32 - 1
)

// Chunk is one record: a type tag and an opaque payload. The checksum is
// always derived from both, so a constructed Chunk is self-consistent.
type Chunk struct {
	typ     Type
	payload []byte
}

// New builds a chunk from a tag and payload. The payload is copied.
// Payloads longer than MaxPayloadLen cannot be represented on the wire;
// WriteChunk rejects them and Bytes must not be called on them.
func New(t Type, payload []byte) Chunk {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Chunk{typ: t, payload: buf}
}

func (c Chunk) Type() Type {
	return c.typ
}

// Length is the payload byte count.
func (c Chunk) Length() int {
	return len(c.payload)
}

// EncodedLen is the full record size on the wire.
func (c Chunk) EncodedLen() int {
	return MinRecordLen + len(c.payload)
}

// Payload returns a copy of the payload bytes.
func (c Chunk) Payload() []byte {
	buf := make([]byte, len(c.payload))
	copy(buf, c.payload)
	return buf
}

// PayloadText returns the payload as a string if it is valid UTF-8.
func (c Chunk) PayloadText() (string, error) {
	if !utf8.Valid(c.payload) {
		return "", fmt.Errorf("%w: %s payload", ErrNotText, c.typ)
	}
	return string(c.payload), nil
}

// Checksum is the CRC-32 (IEEE) over the type tag followed by the payload.
func (c Chunk) Checksum() uint32 {
	return checksum(c.typ, c.payload)
}

func (c Chunk) Equal(other Chunk) bool {
	return c.typ == other.typ && bytes.Equal(c.payload, other.payload)
}

// Bytes returns the canonical record encoding.
func (c Chunk) Bytes() []byte {
	return c.AppendBinary(make([]byte, 0, c.EncodedLen()))
}

// AppendBinary appends the canonical record encoding to dst. It panics if
// the payload exceeds MaxPayloadLen rather than emit a wrapped length field.
func (c Chunk) AppendBinary(dst []byte) []byte {
	if uint64(len(c.payload)) > MaxPayloadLen {
		panic(fmt.Sprintf("chunk: %s payload of %d bytes exceeds length field", c.typ, len(c.payload)))
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(c.payload)))
	dst = append(dst, c.typ[:]...)
	dst = append(dst, c.payload...)
	return binary.BigEndian.AppendUint32(dst, c.Checksum())
}

// Decode parses one record from the front of b. Bytes after the record are
// ignored; use EncodedLen on the result to advance past it.
func Decode(b []byte) (Chunk, error) {
	if len(b) < MinRecordLen {
		return Chunk{}, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(b), MinRecordLen)
	}
	length, typ, err := decodeHeader(b[:HeaderLen])
	if err != nil {
		return Chunk{}, err
	}
	rest := b[HeaderLen:]
	if uint64(length)+ChecksumLen > uint64(len(rest)) {
		return Chunk{}, fmt.Errorf("%w: length %d, %d bytes remain", ErrTruncatedPayload, length, len(rest))
	}
	n := int(length)
	payload := rest[:n]
	stored := binary.BigEndian.Uint32(rest[n : n+ChecksumLen])
	if err := verify(typ, payload, stored); err != nil {
		return Chunk{}, err
	}
	return New(typ, payload), nil
}

func decodeHeader(b []byte) (uint32, Type, error) {
	length := binary.BigEndian.Uint32(b[0:LengthLen])
	typ := TypeFromBytes([TypeLen]byte(b[LengthLen:HeaderLen]))
	if !typ.IsValid() {
		return 0, Type{}, fmt.Errorf("%w: %s", ErrInvalidTag, typ)
	}
	return length, typ, nil
}

func verify(t Type, payload []byte, stored uint32) error {
	if expected := checksum(t, payload); expected != stored {
		return &ChecksumError{Expected: expected, Actual: stored}
	}
	return nil
}

func checksum(t Type, payload []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, t[:])
	return crc32.Update(crc, crc32.IEEETable, payload)
}
