package flatfiles

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/alpacahq/alpaca-flatfiles-go/internal/ascii"
)

// Every parser below decodes the header to a column index first, then each
// following line. Lines with too few fields for the index are skipped.
// Byte slices are decoded in place; only tickers, trade IDs and condition
// lists are copied out of the input.

// ParseMinuteAggregates parses a minute_aggs_v1 file. data may be gzipped.
func ParseMinuteAggregates(data []byte) ([]MinuteAggregate, error) {
	return parseAll[MinuteAggregate](data, ascii.SplitFields, minuteAggregateDecoder)
}

// ParseDayAggregates parses a day_aggs_v1 file. data may be gzipped.
func ParseDayAggregates(data []byte) ([]DayAggregate, error) {
	return parseAll[DayAggregate](data, ascii.SplitFields, dayAggregateDecoder)
}

// ParseTrades parses a trades_v1 file. data may be gzipped.
func ParseTrades(data []byte) ([]Trade, error) {
	return parseAll[Trade](data, ascii.SplitQuotedFields, tradeDecoder)
}

// ParseQuotes parses a quotes_v1 file. data may be gzipped.
func ParseQuotes(data []byte) ([]Quote, error) {
	return parseAll[Quote](data, ascii.SplitQuotedFields, quoteDecoder)
}

// ScanMinuteAggregates streams a minute_aggs_v1 file from r, calling fn for
// each record. Scanning stops at the first error fn returns.
func ScanMinuteAggregates(r io.Reader, fn func(MinuteAggregate) error) error {
	return scanAll[MinuteAggregate](r, ascii.SplitFields, minuteAggregateDecoder, fn)
}

// ScanDayAggregates streams a day_aggs_v1 file from r, calling fn for each
// record. Scanning stops at the first error fn returns.
func ScanDayAggregates(r io.Reader, fn func(DayAggregate) error) error {
	return scanAll[DayAggregate](r, ascii.SplitFields, dayAggregateDecoder, fn)
}

// ScanTrades streams a trades_v1 file from r, calling fn for each record.
// Scanning stops at the first error fn returns.
func ScanTrades(r io.Reader, fn func(Trade) error) error {
	return scanAll[Trade](r, ascii.SplitQuotedFields, tradeDecoder, fn)
}

// ScanQuotes streams a quotes_v1 file from r, calling fn for each record.
// Scanning stops at the first error fn returns.
func ScanQuotes(r io.Reader, fn func(Quote) error) error {
	return scanAll[Quote](r, ascii.SplitQuotedFields, quoteDecoder, fn)
}

type splitFunc func(dst [][]byte, line []byte) [][]byte

// decodeFunc decodes the fields of one line. It is only called with at
// least maxIndex+1 fields.
type decodeFunc[T any] func(fields [][]byte) T

// newDecoderFunc builds the decoder of a record kind from a file header.
type newDecoderFunc[T any] func(h header) (decode decodeFunc[T], maxIndex int, err error)

// rowParser is the state of a single parse call.
type rowParser[T any] struct {
	split    splitFunc
	decode   decodeFunc[T]
	maxIndex int
	fields   [][]byte
}

func newRowParser[T any](headerLine []byte, split splitFunc, newDecoder newDecoderFunc[T]) (*rowParser[T], error) {
	if !utf8.Valid(headerLine) {
		return nil, fmt.Errorf("%w: header is not valid UTF-8", ErrInvalidData)
	}
	decode, maxIndex, err := newDecoder(parseHeader(headerLine))
	if err != nil {
		return nil, err
	}
	return &rowParser[T]{
		split:    split,
		decode:   decode,
		maxIndex: maxIndex,
		fields:   make([][]byte, 0, maxIndex+1),
	}, nil
}

func (p *rowParser[T]) row(line []byte) (rec T, ok bool) {
	p.fields = p.split(p.fields[:0], line)
	if len(p.fields) <= p.maxIndex {
		return rec, false
	}
	return p.decode(p.fields), true
}

func parseAll[T any](data []byte, split splitFunc, newDecoder newDecoderFunc[T]) ([]T, error) {
	data, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	headerLine, rest, ok := ascii.NextLine(data)
	if !ok {
		return nil, nil
	}
	p, err := newRowParser(headerLine, split, newDecoder)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, bytes.Count(rest, []byte{'\n'})+1)
	for {
		var line []byte
		line, rest, ok = ascii.NextLine(rest)
		if !ok {
			break
		}
		if rec, ok := p.row(line); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

const maxLineSize = 16 << 20

func scanAll[T any](r io.Reader, split splitFunc, newDecoder newDecoderFunc[T], fn func(T) error) error {
	rc, err := NewReader(r)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	sc.Split(ascii.ScanLines)
	if !sc.Scan() {
		return sc.Err()
	}
	p, err := newRowParser(sc.Bytes(), split, newDecoder)
	if err != nil {
		return err
	}
	for sc.Scan() {
		rec, ok := p.row(sc.Bytes())
		if !ok {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}

// tickerCache returns the previous ticker string while consecutive rows
// carry the same ticker, which is the common case in sorted files.
type tickerCache struct {
	last string
}

func (c *tickerCache) intern(b []byte) string {
	if string(b) != c.last {
		c.last = string(b)
	}
	return c.last
}

func optionalInt(b []byte) *int {
	if v, ok := ascii.OptionalInt(b); ok {
		return &v
	}
	return nil
}

func optionalInt64(b []byte) *int64 {
	if v, ok := ascii.OptionalInt64(b); ok {
		return &v
	}
	return nil
}

func aggregateDecoder(h header) (decodeFunc[Aggregate], int, error) {
	var c aggregateColumns
	maxIndex, err := c.resolve(h)
	if err != nil {
		return nil, 0, err
	}
	var tickers tickerCache
	return func(f [][]byte) Aggregate {
		return Aggregate{
			Ticker:       tickers.intern(f[c.ticker]),
			Volume:       ascii.Float64(f[c.volume]),
			Open:         ascii.Float64(f[c.open]),
			Close:        ascii.Float64(f[c.close]),
			High:         ascii.Float64(f[c.high]),
			Low:          ascii.Float64(f[c.low]),
			WindowStart:  ascii.Int64(f[c.windowStart]),
			Transactions: ascii.Int64(f[c.transactions]),
		}
	}, maxIndex, nil
}

func minuteAggregateDecoder(h header) (decodeFunc[MinuteAggregate], int, error) {
	decode, maxIndex, err := aggregateDecoder(h)
	if err != nil {
		return nil, 0, err
	}
	return func(f [][]byte) MinuteAggregate { return MinuteAggregate(decode(f)) }, maxIndex, nil
}

func dayAggregateDecoder(h header) (decodeFunc[DayAggregate], int, error) {
	decode, maxIndex, err := aggregateDecoder(h)
	if err != nil {
		return nil, 0, err
	}
	return func(f [][]byte) DayAggregate { return DayAggregate(decode(f)) }, maxIndex, nil
}

func tradeDecoder(h header) (decodeFunc[Trade], int, error) {
	var c tradeColumns
	maxIndex, err := c.resolve(h)
	if err != nil {
		return nil, 0, err
	}
	var tickers tickerCache
	return func(f [][]byte) Trade {
		return Trade{
			Ticker:               tickers.intern(f[c.ticker]),
			Conditions:           ascii.IntList(nil, f[c.conditions]),
			Correction:           optionalInt(f[c.correction]),
			Exchange:             ascii.Int(f[c.exchange]),
			ID:                   string(f[c.id]),
			ParticipantTimestamp: optionalInt64(f[c.participantTimestamp]),
			Price:                ascii.Float64(f[c.price]),
			SequenceNumber:       ascii.Int64(f[c.sequenceNumber]),
			SIPTimestamp:         ascii.Int64(f[c.sipTimestamp]),
			Size:                 ascii.Float64(f[c.size]),
			Tape:                 tapeOf(ascii.Int(f[c.tape])),
			TRFID:                optionalInt64(f[c.trfID]),
			TRFTimestamp:         optionalInt64(f[c.trfTimestamp]),
		}
	}, maxIndex, nil
}

func quoteDecoder(h header) (decodeFunc[Quote], int, error) {
	var c quoteColumns
	maxIndex, err := c.resolve(h)
	if err != nil {
		return nil, 0, err
	}
	var tickers tickerCache
	return func(f [][]byte) Quote {
		return Quote{
			Ticker:               tickers.intern(f[c.ticker]),
			AskExchange:          ascii.Int(f[c.askExchange]),
			AskPrice:             ascii.Float64(f[c.askPrice]),
			AskSize:              ascii.Float64(f[c.askSize]),
			BidExchange:          ascii.Int(f[c.bidExchange]),
			BidPrice:             ascii.Float64(f[c.bidPrice]),
			BidSize:              ascii.Float64(f[c.bidSize]),
			Conditions:           ascii.IntList(nil, f[c.conditions]),
			Indicators:           ascii.IntList(nil, f[c.indicators]),
			ParticipantTimestamp: optionalInt64(f[c.participantTimestamp]),
			SequenceNumber:       ascii.Int64(f[c.sequenceNumber]),
			SIPTimestamp:         ascii.Int64(f[c.sipTimestamp]),
			Tape:                 tapeOf(ascii.Int(f[c.tape])),
			TRFTimestamp:         optionalInt64(f[c.trfTimestamp]),
		}
	}, maxIndex, nil
}
