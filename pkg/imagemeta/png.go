// Package imagemeta embeds and extracts descriptive text fields in image files.
package imagemeta

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	pis "github.com/dsoprea/go-png-image-structure/v2"
)
var (
	// ErrNotPNG is returned when data does not start with the PNG signature.
	ErrNotPNG = errors.New("imagemeta: not a PNG file")

	// ErrCorruptPNG is returned when the chunk stream is malformed.
	ErrCorruptPNG = errors.New("imagemeta: corrupt PNG chunk stream")

	// ErrInvalidKeyword is returned for keywords PNG text chunks cannot carry.
	ErrInvalidKeyword = errors.New("imagemeta: invalid keyword")
)

// TextField is one keyword/value pair.
type TextField struct {
	Keyword string
	Value   string
}

// Fields is an ordered list of text fields.
type Fields []TextField

// Get returns the value of the first field with the keyword.
func (f Fields) Get(keyword string) (string, bool) {
	for _, field := range f {
		if field.Keyword == keyword {
			return field.Value, true
		}
	}
	return "", false
}

// EmbedPNGText inserts text chunks right after IHDR.
// Values representable in Latin-1 go into tEXt, others into uncompressed iTXt.
func EmbedPNGText(data []byte, fields Fields) ([]byte, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].Type != "IHDR" {
		return nil, fmt.Errorf("%w: IHDR must come first", ErrCorruptPNG)
	}

	out := make([]*pis.Chunk, 0, len(chunks)+len(fields))
	out = append(out, chunks[0])
	for _, f := range fields {
		c, err := textChunk(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	out = append(out, chunks[1:]...)

	var buf bytes.Buffer
	if err := pis.NewChunkSlice(out).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadPNGText returns the tEXt, zTXt and iTXt fields in file order.
func ReadPNGText(data []byte) (Fields, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}

	var fields Fields
	for _, c := range chunks {
		var (
			f   TextField
			ok  bool
			err error
		)
		switch c.Type {
		case "tEXt":
			f, ok = parseTEXt(c.Data)
		case "zTXt":
			f, ok, err = parseZTXt(c.Data)
		case "iTXt":
			f, ok, err = parseITXt(c.Data)
		}
		if err != nil {
			return nil, err
		}
		if ok {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// readChunks splits a PNG into its chunks and verifies every CRC.
func readChunks(data []byte) ([]*pis.Chunk, error) {
	parser := pis.NewPngMediaParser()
	if !parser.LooksLikeFormat(data) {
		return nil, ErrNotPNG
	}

	mc, err := parser.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPNG, err)
	}
	cs, ok := mc.(*pis.ChunkSlice)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected parse result %T", ErrCorruptPNG, mc)
	}

	chunks := cs.Chunks()
	for _, c := range chunks {
		if !c.CheckCrc32() {
			return nil, fmt.Errorf("%w: bad CRC in %s", ErrCorruptPNG, c.Type)
		}
	}
	return chunks, nil
}

// newChunk builds a chunk with its length and CRC filled in.
func newChunk(typ string, data []byte) *pis.Chunk {
	c := &pis.Chunk{Type: typ, Length: uint32(len(data)), Data: data}
	c.UpdateCrc32()
	return c
}

func textChunk(f TextField) (*pis.Chunk, error) {
	keyword, ok := toLatin1(f.Keyword)
	if !ok || len(keyword) == 0 || len(keyword) > 79 || bytes.IndexByte(keyword, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyword, f.Keyword)
	}

	if value, ok := toLatin1(f.Value); ok && bytes.IndexByte(value, 0) < 0 {
		data := append(append(keyword, 0), value...)
		return newChunk("tEXt", data), nil
	}

	// keyword, NUL, compression flag, method, empty language tag NUL, empty translated keyword NUL
	data := append(keyword, 0, 0, 0, 0, 0)
	data = append(data, f.Value...)
	return newChunk("iTXt", data), nil
}

func parseTEXt(data []byte) (TextField, bool) {
	i := bytes.IndexByte(data, 0)
	if i <= 0 {
		return TextField{}, false
	}
	return TextField{Keyword: fromLatin1(data[:i]), Value: fromLatin1(data[i+1:])}, true
}

func parseZTXt(data []byte) (TextField, bool, error) {
	i := bytes.IndexByte(data, 0)
	if i <= 0 || len(data) < i+2 {
		return TextField{}, false, nil
	}
	value, err := inflate(data[i+2:])
	if err != nil {
		return TextField{}, false, err
	}
	return TextField{Keyword: fromLatin1(data[:i]), Value: fromLatin1(value)}, true, nil
}

func parseITXt(data []byte) (TextField, bool, error) {
	i := bytes.IndexByte(data, 0)
	if i <= 0 || len(data) < i+3 {
		return TextField{}, false, nil
	}
	keyword := fromLatin1(data[:i])
	compressed := data[i+1] == 1
	rest := data[i+3:]

	// Skip language tag and translated keyword
	for n := 0; n < 2; n++ {
		j := bytes.IndexByte(rest, 0)
		if j < 0 {
			return TextField{}, false, nil
		}
		rest = rest[j+1:]
	}

	value := rest
	if compressed {
		var err error
		if value, err = inflate(rest); err != nil {
			return TextField{}, false, err
		}
	}
	if !utf8.Valid(value) {
		return TextField{}, false, nil
	}
	return TextField{Keyword: keyword, Value: string(value)}, true, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate text chunk: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate text chunk: %w", err)
	}
	return out, nil
}

func toLatin1(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

func fromLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
