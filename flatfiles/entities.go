package flatfiles

import "time"

// Tape is the consolidated tape a US equity trade or quote was reported to.
type Tape uint8

const (
	// NYSE is Tape A.
	NYSE Tape = 1
	// NYSEAmerican is Tape B, which also carries the regional exchanges.
	NYSEAmerican Tape = 2
	// Nasdaq is Tape C.
	Nasdaq Tape = 3
)

// tapeOf maps the integer found in the files to a Tape. Unknown values,
// including an empty column, map to NYSE.
func tapeOf(n int) Tape {
	switch Tape(n) {
	case NYSEAmerican:
		return NYSEAmerican
	case Nasdaq:
		return Nasdaq
	default:
		return NYSE
	}
}

func (t Tape) String() string {
	switch t {
	case NYSE:
		return "A"
	case NYSEAmerican:
		return "B"
	case Nasdaq:
		return "C"
	default:
		return "?"
	}
}

// Aggregate is an OHLCV bar over a fixed window. WindowStart is the start
// of the window in nanoseconds since the epoch.
type Aggregate struct {
	Ticker       string
	Volume       float64
	Open         float64
	Close        float64
	High         float64
	Low          float64
	WindowStart  int64
	Transactions int64
}

// MinuteAggregate is a one minute bar from a minute_aggs_v1 file.
type MinuteAggregate Aggregate

// DayAggregate is a one session bar from a day_aggs_v1 file.
type DayAggregate Aggregate

// Time returns WindowStart as a time.Time.
func (a Aggregate) Time() time.Time {
	return time.Unix(0, a.WindowStart).UTC()
}

func (a MinuteAggregate) Time() time.Time {
	return Aggregate(a).Time()
}

func (a DayAggregate) Time() time.Time {
	return Aggregate(a).Time()
}

// Trade is a single trade from a trades_v1 file. Timestamps are in
// nanoseconds since the epoch, and nil pointers mark empty columns.
type Trade struct {
	Ticker               string
	Conditions           []int
	Correction           *int
	Exchange             int
	ID                   string
	ParticipantTimestamp *int64
	Price                float64
	SequenceNumber       int64
	SIPTimestamp         int64
	Size                 float64
	Tape                 Tape
	TRFID                *int64
	TRFTimestamp         *int64
}

// Time returns SIPTimestamp as a time.Time.
func (t Trade) Time() time.Time {
	return time.Unix(0, t.SIPTimestamp).UTC()
}

// Quote is a single NBBO quote from a quotes_v1 file. Timestamps are in
// nanoseconds since the epoch, and nil pointers mark empty columns.
type Quote struct {
	Ticker               string
	AskExchange          int
	AskPrice             float64
	AskSize              float64
	BidExchange          int
	BidPrice             float64
	BidSize              float64
	Conditions           []int
	Indicators           []int
	ParticipantTimestamp *int64
	SequenceNumber       int64
	SIPTimestamp         int64
	Tape                 Tape
	TRFTimestamp         *int64
}

// Time returns SIPTimestamp as a time.Time.
func (q Quote) Time() time.Time {
	return time.Unix(0, q.SIPTimestamp).UTC()
}
