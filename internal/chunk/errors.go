package chunk

import (
	"errors"
	"fmt"
)

var (
	ErrWrongLength      = errors.New("chunk: type must be exactly 4 bytes")
	ErrInvalidCharacter = errors.New("chunk: type contains a non-letter byte")
	ErrInvalidTag       = errors.New("chunk: invalid type tag")
	ErrTooShort         = errors.New("chunk: input shorter than minimum record")
	ErrTruncatedPayload = errors.New("chunk: declared length exceeds available bytes")
	ErrChecksumMismatch = errors.New("chunk: checksum mismatch")
	ErrNotText          = errors.New("chunk: bytes are not valid utf-8 text")
	ErrPayloadTooLarge  = errors.New("chunk: payload too large")
)

// ChecksumError reports a record whose stored CRC disagrees with the CRC
// computed over its type and payload.
type ChecksumError struct {
	Expected uint32 // computed
	Actual   uint32 // stored on the wire
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("chunk: checksum mismatch: expected %d, found %d", e.Expected, e.Actual)
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksumMismatch
}
