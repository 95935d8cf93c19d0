package flatfiles

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// ErrInvalidData is returned when a file can not be decompressed or is not
// text.
var ErrInvalidData = errors.New("flatfiles: invalid data")

func hasGzipMagic(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

// Decompress gunzips data. Data without the gzip magic bytes is returned
// as is, so plain CSV can be fed to the parsers directly.
func Decompress(data []byte) ([]byte, error) {
	if !hasGzipMagic(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return out, nil
}

// NewReader is the streaming counterpart of Decompress. Read errors of the
// gzip stream wrap ErrInvalidData.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, 64<<10)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !hasGzipMagic(magic) {
		return io.NopCloser(br), nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return &gzipReader{zr: zr}, nil
}

type gzipReader struct {
	zr *gzip.Reader
}

func (g *gzipReader) Read(p []byte) (int, error) {
	n, err := g.zr.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return n, err
}

func (g *gzipReader) Close() error {
	return g.zr.Close()
}
