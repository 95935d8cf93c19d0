package flatfiles

import (
	"bytes"
	"fmt"

	"github.com/alpacahq/alpaca-flatfiles-go/internal/ascii"
)

// MissingColumnError is returned when the header of a file lacks a column
// the record kind requires.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("flatfiles: missing column %q", e.Name)
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// header maps the column names of a file to their positions.
type header map[string]int

func parseHeader(line []byte) header {
	line = bytes.TrimPrefix(line, utf8BOM)
	fields := ascii.SplitFields(nil, line)
	h := make(header, len(fields))
	for i, f := range fields {
		name := string(bytes.TrimSpace(f))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

type column struct {
	name string
	dst  *int
}

// resolve stores the position of every column in its dst and returns the
// highest position. Columns are looked up in order, so the first missing
// one is reported.
func (h header) resolve(cols ...column) (int, error) {
	maxIndex := -1
	for _, c := range cols {
		i, ok := h[c.name]
		if !ok {
			return 0, &MissingColumnError{Name: c.name}
		}
		*c.dst = i
		if i > maxIndex {
			maxIndex = i
		}
	}
	return maxIndex, nil
}

type aggregateColumns struct {
	ticker, volume, open, close, high, low, windowStart, transactions int
}

func (c *aggregateColumns) resolve(h header) (int, error) {
	return h.resolve(
		column{"ticker", &c.ticker},
		column{"volume", &c.volume},
		column{"open", &c.open},
		column{"close", &c.close},
		column{"high", &c.high},
		column{"low", &c.low},
		column{"window_start", &c.windowStart},
		column{"transactions", &c.transactions},
	)
}

type tradeColumns struct {
	ticker, conditions, correction, exchange, id, participantTimestamp,
	price, sequenceNumber, sipTimestamp, size, tape, trfID, trfTimestamp int
}

func (c *tradeColumns) resolve(h header) (int, error) {
	return h.resolve(
		column{"ticker", &c.ticker},
		column{"conditions", &c.conditions},
		column{"correction", &c.correction},
		column{"exchange", &c.exchange},
		column{"id", &c.id},
		column{"participant_timestamp", &c.participantTimestamp},
		column{"price", &c.price},
		column{"sequence_number", &c.sequenceNumber},
		column{"sip_timestamp", &c.sipTimestamp},
		column{"size", &c.size},
		column{"tape", &c.tape},
		column{"trf_id", &c.trfID},
		column{"trf_timestamp", &c.trfTimestamp},
	)
}

type quoteColumns struct {
	ticker, askExchange, askPrice, askSize, bidExchange, bidPrice, bidSize,
	conditions, indicators, participantTimestamp, sequenceNumber,
	sipTimestamp, tape, trfTimestamp int
}

func (c *quoteColumns) resolve(h header) (int, error) {
	return h.resolve(
		column{"ticker", &c.ticker},
		column{"ask_exchange", &c.askExchange},
		column{"ask_price", &c.askPrice},
		column{"ask_size", &c.askSize},
		column{"bid_exchange", &c.bidExchange},
		column{"bid_price", &c.bidPrice},
		column{"bid_size", &c.bidSize},
		column{"conditions", &c.conditions},
		column{"indicators", &c.indicators},
		column{"participant_timestamp", &c.participantTimestamp},
		column{"sequence_number", &c.sequenceNumber},
		column{"sip_timestamp", &c.sipTimestamp},
		column{"tape", &c.tape},
		column{"trf_timestamp", &c.trfTimestamp},
	)
}
