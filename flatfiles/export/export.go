// Package export writes parsed flat file records as JSON lines or as a
// stream of MessagePack values.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/mailru/easyjson"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is an output encoding.
type Format string

const (
	JSONLines   Format = "jsonl"
	MessagePack Format = "msgpack"
)

// ErrUnknownFormat is returned for formats other than JSONLines and
// MessagePack.
var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSONLines, MessagePack:
		return f, nil
	case "json", "ndjson":
		return JSONLines, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Record is implemented by every record type of package flatfiles.
type Record interface {
	easyjson.Marshaler
	msgpack.CustomEncoder
}

// Writer encodes records to an underlying writer. Output is buffered until
// Flush.
type Writer struct {
	buf    *bufio.Writer
	format Format
	enc    *msgpack.Encoder
	count  int
}

// NewWriter returns a Writer encoding to w in format.
func NewWriter(w io.Writer, format Format) (*Writer, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	ew := &Writer{
		buf:    bufio.NewWriterSize(w, 256<<10),
		format: format,
	}
	if format == MessagePack {
		ew.enc = msgpack.NewEncoder(ew.buf)
	}
	return ew, nil
}

// Write encodes one record.
func (w *Writer) Write(rec Record) error {
	switch w.format {
	case MessagePack:
		if err := w.enc.Encode(rec); err != nil {
			return err
		}
	default:
		if _, err := easyjson.MarshalToWriter(rec, w.buf); err != nil {
			return err
		}
		if err := w.buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// WriteAll writes records and flushes.
func WriteAll[T Record](w *Writer, records []T) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadMessagePack decodes a stream written in the MessagePack format,
// calling fn for each record.
func ReadMessagePack[T any](r io.Reader, fn func(T) error) error {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	for {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
