package png

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/pngme/internal/chunk"
)

// Signature is the fixed file header.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

var (
	ErrInvalidSignature = errors.New("png: invalid signature")
	ErrChunkNotFound    = errors.New("png: chunk not found")
)

// File is a signature plus an ordered chunk list.
type File struct {
	chunks []chunk.Chunk
}

func FromChunks(chunks []chunk.Chunk) *File {
	out := make([]chunk.Chunk, len(chunks))
	copy(out, chunks)
	return &File{chunks: out}
}

// Decode parses a complete file. Every byte after the signature must belong
// to a well-formed chunk.
func Decode(b []byte) (*File, error) {
	if len(b) < len(Signature) || !bytes.Equal(b[:len(Signature)], Signature[:]) {
		return nil, ErrInvalidSignature
	}
	f := &File{}
	for offset := len(Signature); offset < len(b); {
		c, err := chunk.Decode(b[offset:])
		if err != nil {
			return nil, fmt.Errorf("png: chunk %d at offset %d: %w", len(f.chunks), offset, err)
		}
		f.chunks = append(f.chunks, c)
		offset += c.EncodedLen()
	}
	return f, nil
}

// Read parses a file from r, bounding each chunk by limits.
func Read(r io.Reader, limits chunk.Limits) (*File, error) {
	var sig [len(Signature)]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}
	if sig != Signature {
		return nil, ErrInvalidSignature
	}
	f := &File{}
	for {
		c, err := chunk.ReadChunk(r, limits)
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, fmt.Errorf("png: chunk %d: %w", len(f.chunks), err)
		}
		f.chunks = append(f.chunks, c)
	}
}

// Chunks returns the chunk list in file order.
func (f *File) Chunks() []chunk.Chunk {
	out := make([]chunk.Chunk, len(f.chunks))
	copy(out, f.chunks)
	return out
}

func (f *File) Append(c chunk.Chunk) {
	f.chunks = append(f.chunks, c)
}

// ChunkByType returns the first chunk with the given type.
func (f *File) ChunkByType(t chunk.Type) (chunk.Chunk, bool) {
	for _, c := range f.chunks {
		if c.Type() == t {
			return c, true
		}
	}
	return chunk.Chunk{}, false
}

// RemoveFirst deletes and returns the first chunk with the given type.
func (f *File) RemoveFirst(t chunk.Type) (chunk.Chunk, error) {
	for i, c := range f.chunks {
		if c.Type() == t {
			f.chunks = append(f.chunks[:i], f.chunks[i+1:]...)
			return c, nil
		}
	}
	return chunk.Chunk{}, fmt.Errorf("%w: %s", ErrChunkNotFound, t)
}

// Bytes returns the signature followed by every chunk encoding.
func (f *File) Bytes() []byte {
	size := len(Signature)
	for _, c := range f.chunks {
		size += c.EncodedLen()
	}
	out := make([]byte, 0, size)
	out = append(out, Signature[:]...)
	for _, c := range f.chunks {
		out = c.AppendBinary(out)
	}
	return out
}

// Write streams the signature and every chunk to w, enforcing limits per
// chunk. Writing stops at the first rejected chunk.
func (f *File) Write(w io.Writer, limits chunk.Limits) error {
	if _, err := w.Write(Signature[:]); err != nil {
		return err
	}
	for i, c := range f.chunks {
		if err := chunk.WriteChunk(w, c, limits); err != nil {
			return fmt.Errorf("png: chunk %d: %w", i, err)
		}
	}
	return nil
}
