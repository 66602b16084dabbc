package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/pngme/internal/chunk"
	"github.com/danmuck/pngme/internal/png"
	"github.com/rs/zerolog/log"
)

// EncodeArgs describes a message to hide in a file.
type EncodeArgs struct {
	Path      string
	ChunkType string
	Message   string
	// Output defaults to Path.
	Output string
}

// Encode appends a chunk holding the message and writes the file.
func Encode(args EncodeArgs, limits chunk.Limits) error {
	typ, err := parseValidType(args.ChunkType)
	if err != nil {
		return err
	}
	f, err := readFile(args.Path, limits)
	if err != nil {
		return err
	}
	c := chunk.New(typ, []byte(args.Message))
	f.Append(c)

	out := args.Output
	if out == "" {
		out = args.Path
	}
	if err := writeFile(out, f, limits); err != nil {
		return err
	}
	log.Debug().Str("path", out).Str("type", typ.String()).Int("length", c.Length()).
		Uint32("crc", c.Checksum()).Msg("chunk encoded")
	return nil
}

// Decode returns the text payload of the first chunk with the given type.
func Decode(path, chunkType string, limits chunk.Limits) (string, error) {
	typ, err := parseValidType(chunkType)
	if err != nil {
		return "", err
	}
	f, err := readFile(path, limits)
	if err != nil {
		return "", err
	}
	c, ok := f.ChunkByType(typ)
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", png.ErrChunkNotFound, typ, path)
	}
	msg, err := c.PayloadText()
	if err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Str("type", typ.String()).Int("length", c.Length()).Msg("chunk decoded")
	return msg, nil
}

// Remove deletes the first chunk with the given type and rewrites the file.
func Remove(path, chunkType string, limits chunk.Limits) (chunk.Chunk, error) {
	typ, err := parseValidType(chunkType)
	if err != nil {
		return chunk.Chunk{}, err
	}
	f, err := readFile(path, limits)
	if err != nil {
		return chunk.Chunk{}, err
	}
	removed, err := f.RemoveFirst(typ)
	if err != nil {
		return chunk.Chunk{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := writeFile(path, f, limits); err != nil {
		return chunk.Chunk{}, err
	}
	log.Debug().Str("path", path).Str("type", typ.String()).Int("length", removed.Length()).Msg("chunk removed")
	return removed, nil
}

// Print writes one line per chunk in file order.
func Print(path string, w io.Writer, limits chunk.Limits) error {
	f, err := readFile(path, limits)
	if err != nil {
		return err
	}
	for i, c := range f.Chunks() {
		t := c.Type()
		if _, err := fmt.Fprintf(w, "%d\t%s\tlength=%d\tcritical=%t\tpublic=%t\tsafe_to_copy=%t\tcrc=%08x\n",
			i, t, c.Length(), t.IsCritical(), t.IsPublic(), t.IsSafeToCopy(), c.Checksum()); err != nil {
			return err
		}
	}
	return nil
}

func parseValidType(raw string) (chunk.Type, error) {
	typ, err := chunk.ParseType(raw)
	if err != nil {
		return chunk.Type{}, err
	}
	if !typ.IsValid() {
		return chunk.Type{}, fmt.Errorf("%w: %s", chunk.ErrInvalidTag, typ)
	}
	return typ, nil
}

func readFile(path string, limits chunk.Limits) (*png.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := png.Read(fh, limits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("chunks", len(f.Chunks())).Msg("file read")
	return f, nil
}

// writeFile encodes into memory first so a rejected chunk leaves the
// existing file untouched.
func writeFile(path string, f *png.File, limits chunk.Limits) error {
	var buf bytes.Buffer
	if err := f.Write(&buf, limits); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
