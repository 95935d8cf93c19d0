package flatfiles

import (
	"github.com/mailru/easyjson/jwriter"
)

// The JSON forms use the column names of the files as keys. Empty optional
// columns are written as null.

func writeInts(w *jwriter.Writer, v []int) {
	if v == nil {
		w.RawString("null")
		return
	}
	w.RawByte('[')
	for i, n := range v {
		if i > 0 {
			w.RawByte(',')
		}
		w.Int(n)
	}
	w.RawByte(']')
}

func writeOptionalInt(w *jwriter.Writer, v *int) {
	if v == nil {
		w.RawString("null")
		return
	}
	w.Int(*v)
}

func writeOptionalInt64(w *jwriter.Writer, v *int64) {
	if v == nil {
		w.RawString("null")
		return
	}
	w.Int64(*v)
}

// MarshalEasyJSON writes a as a JSON object.
func (a Aggregate) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"ticker":`)
	w.String(a.Ticker)
	w.RawString(`,"volume":`)
	w.Float64(a.Volume)
	w.RawString(`,"open":`)
	w.Float64(a.Open)
	w.RawString(`,"close":`)
	w.Float64(a.Close)
	w.RawString(`,"high":`)
	w.Float64(a.High)
	w.RawString(`,"low":`)
	w.Float64(a.Low)
	w.RawString(`,"window_start":`)
	w.Int64(a.WindowStart)
	w.RawString(`,"transactions":`)
	w.Int64(a.Transactions)
	w.RawByte('}')
}

// MarshalJSON implements json.Marshaler.
func (a Aggregate) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	a.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

func (a MinuteAggregate) MarshalEasyJSON(w *jwriter.Writer) {
	Aggregate(a).MarshalEasyJSON(w)
}

func (a MinuteAggregate) MarshalJSON() ([]byte, error) {
	return Aggregate(a).MarshalJSON()
}

func (a DayAggregate) MarshalEasyJSON(w *jwriter.Writer) {
	Aggregate(a).MarshalEasyJSON(w)
}

func (a DayAggregate) MarshalJSON() ([]byte, error) {
	return Aggregate(a).MarshalJSON()
}

// MarshalEasyJSON writes t as a JSON object.
func (t Trade) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"ticker":`)
	w.String(t.Ticker)
	w.RawString(`,"conditions":`)
	writeInts(w, t.Conditions)
	w.RawString(`,"correction":`)
	writeOptionalInt(w, t.Correction)
	w.RawString(`,"exchange":`)
	w.Int(t.Exchange)
	w.RawString(`,"id":`)
	w.String(t.ID)
	w.RawString(`,"participant_timestamp":`)
	writeOptionalInt64(w, t.ParticipantTimestamp)
	w.RawString(`,"price":`)
	w.Float64(t.Price)
	w.RawString(`,"sequence_number":`)
	w.Int64(t.SequenceNumber)
	w.RawString(`,"sip_timestamp":`)
	w.Int64(t.SIPTimestamp)
	w.RawString(`,"size":`)
	w.Float64(t.Size)
	w.RawString(`,"tape":`)
	w.Int(int(t.Tape))
	w.RawString(`,"trf_id":`)
	writeOptionalInt64(w, t.TRFID)
	w.RawString(`,"trf_timestamp":`)
	writeOptionalInt64(w, t.TRFTimestamp)
	w.RawByte('}')
}

// MarshalJSON implements json.Marshaler.
func (t Trade) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	t.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON writes q as a JSON object.
func (q Quote) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"ticker":`)
	w.String(q.Ticker)
	w.RawString(`,"ask_exchange":`)
	w.Int(q.AskExchange)
	w.RawString(`,"ask_price":`)
	w.Float64(q.AskPrice)
	w.RawString(`,"ask_size":`)
	w.Float64(q.AskSize)
	w.RawString(`,"bid_exchange":`)
	w.Int(q.BidExchange)
	w.RawString(`,"bid_price":`)
	w.Float64(q.BidPrice)
	w.RawString(`,"bid_size":`)
	w.Float64(q.BidSize)
	w.RawString(`,"conditions":`)
	writeInts(w, q.Conditions)
	w.RawString(`,"indicators":`)
	writeInts(w, q.Indicators)
	w.RawString(`,"participant_timestamp":`)
	writeOptionalInt64(w, q.ParticipantTimestamp)
	w.RawString(`,"sequence_number":`)
	w.Int64(q.SequenceNumber)
	w.RawString(`,"sip_timestamp":`)
	w.Int64(q.SIPTimestamp)
	w.RawString(`,"tape":`)
	w.Int(int(q.Tape))
	w.RawString(`,"trf_timestamp":`)
	writeOptionalInt64(w, q.TRFTimestamp)
	w.RawByte('}')
}

// MarshalJSON implements json.Marshaler.
func (q Quote) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	q.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}
