package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Limits constrains stream decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 16 * 1024 * 1024,
	}
}

// ReadChunk reads exactly one record from r. The declared length is checked
// against limits before the payload is allocated. It returns io.EOF only when
// r is exhausted before the first byte of a record.
func ReadChunk(r io.Reader, limits Limits) (Chunk, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Chunk{}, ErrTooShort
		}
		return Chunk{}, err
	}

	length, typ, err := decodeHeader(head[:])
	if err != nil {
		return Chunk{}, err
	}
	if uint64(length) > limits.MaxPayloadBytes {
		return Chunk{}, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, length, limits.MaxPayloadBytes)
	}

	body := make([]byte, int(length)+ChecksumLen)
	if n, err := io.ReadFull(r, body); err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return Chunk{}, err
		}
		if HeaderLen+n < MinRecordLen {
			return Chunk{}, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, HeaderLen+n, MinRecordLen)
		}
		return Chunk{}, fmt.Errorf("%w: length %d, %d bytes remain", ErrTruncatedPayload, length, n)
	}

	payload := body[:length:length]
	if err := verify(typ, payload, binary.BigEndian.Uint32(body[length:])); err != nil {
		return Chunk{}, err
	}
	return Chunk{typ: typ, payload: payload}, nil
}

// WriteChunk writes the canonical encoding of c to w. Payloads over the
// limit, or over what the length field can hold, are rejected before any
// byte is written.
func WriteChunk(w io.Writer, c Chunk, limits Limits) error {
	payloadLen := uint64(len(c.payload))
	bound := min(limits.MaxPayloadBytes, MaxPayloadLen)
	if payloadLen > bound {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, payloadLen, bound)
	}
	_, err := w.Write(c.Bytes())
	return err
}
