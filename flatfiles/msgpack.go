package flatfiles

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Records are encoded as msgpack maps with short keys.

var (
	_ msgpack.CustomEncoder = Aggregate{}
	_ msgpack.CustomDecoder = (*Aggregate)(nil)
	_ msgpack.CustomEncoder = Trade{}
	_ msgpack.CustomDecoder = (*Trade)(nil)
	_ msgpack.CustomEncoder = Quote{}
	_ msgpack.CustomDecoder = (*Quote)(nil)
)

func (a Aggregate) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(8); err != nil {
		return err
	}
	for _, err := range []error{
		encodeKey(enc, "S"), enc.EncodeString(a.Ticker),
		encodeKey(enc, "v"), enc.EncodeFloat64(a.Volume),
		encodeKey(enc, "o"), enc.EncodeFloat64(a.Open),
		encodeKey(enc, "c"), enc.EncodeFloat64(a.Close),
		encodeKey(enc, "h"), enc.EncodeFloat64(a.High),
		encodeKey(enc, "l"), enc.EncodeFloat64(a.Low),
		encodeKey(enc, "t"), enc.EncodeInt(a.WindowStart),
		encodeKey(enc, "n"), enc.EncodeInt(a.Transactions),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Aggregate) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	*a = Aggregate{}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		switch key {
		case "S":
			a.Ticker, err = dec.DecodeString()
		case "v":
			a.Volume, err = dec.DecodeFloat64()
		case "o":
			a.Open, err = dec.DecodeFloat64()
		case "c":
			a.Close, err = dec.DecodeFloat64()
		case "h":
			a.High, err = dec.DecodeFloat64()
		case "l":
			a.Low, err = dec.DecodeFloat64()
		case "t":
			a.WindowStart, err = dec.DecodeInt64()
		case "n":
			a.Transactions, err = dec.DecodeInt64()
		default:
			err = dec.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a MinuteAggregate) EncodeMsgpack(enc *msgpack.Encoder) error {
	return Aggregate(a).EncodeMsgpack(enc)
}

func (a *MinuteAggregate) DecodeMsgpack(dec *msgpack.Decoder) error {
	return (*Aggregate)(a).DecodeMsgpack(dec)
}

func (a DayAggregate) EncodeMsgpack(enc *msgpack.Encoder) error {
	return Aggregate(a).EncodeMsgpack(enc)
}

func (a *DayAggregate) DecodeMsgpack(dec *msgpack.Decoder) error {
	return (*Aggregate)(a).DecodeMsgpack(dec)
}

func (t Trade) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(13); err != nil {
		return err
	}
	for _, err := range []error{
		encodeKey(enc, "S"), enc.EncodeString(t.Ticker),
		encodeKey(enc, "c"), enc.Encode(t.Conditions),
		encodeKey(enc, "e"), enc.Encode(t.Correction),
		encodeKey(enc, "x"), enc.EncodeInt(int64(t.Exchange)),
		encodeKey(enc, "i"), enc.EncodeString(t.ID),
		encodeKey(enc, "y"), enc.Encode(t.ParticipantTimestamp),
		encodeKey(enc, "p"), enc.EncodeFloat64(t.Price),
		encodeKey(enc, "q"), enc.EncodeInt(t.SequenceNumber),
		encodeKey(enc, "t"), enc.EncodeInt(t.SIPTimestamp),
		encodeKey(enc, "s"), enc.EncodeFloat64(t.Size),
		encodeKey(enc, "z"), enc.EncodeUint(uint64(t.Tape)),
		encodeKey(enc, "ri"), enc.Encode(t.TRFID),
		encodeKey(enc, "rt"), enc.Encode(t.TRFTimestamp),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Trade) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	*t = Trade{}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		switch key {
		case "S":
			t.Ticker, err = dec.DecodeString()
		case "c":
			err = dec.Decode(&t.Conditions)
		case "e":
			err = dec.Decode(&t.Correction)
		case "x":
			t.Exchange, err = dec.DecodeInt()
		case "i":
			t.ID, err = dec.DecodeString()
		case "y":
			err = dec.Decode(&t.ParticipantTimestamp)
		case "p":
			t.Price, err = dec.DecodeFloat64()
		case "q":
			t.SequenceNumber, err = dec.DecodeInt64()
		case "t":
			t.SIPTimestamp, err = dec.DecodeInt64()
		case "s":
			t.Size, err = dec.DecodeFloat64()
		case "z":
			var tape uint8
			tape, err = dec.DecodeUint8()
			t.Tape = Tape(tape)
		case "ri":
			err = dec.Decode(&t.TRFID)
		case "rt":
			err = dec.Decode(&t.TRFTimestamp)
		default:
			err = dec.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (q Quote) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(14); err != nil {
		return err
	}
	for _, err := range []error{
		encodeKey(enc, "S"), enc.EncodeString(q.Ticker),
		encodeKey(enc, "ax"), enc.EncodeInt(int64(q.AskExchange)),
		encodeKey(enc, "ap"), enc.EncodeFloat64(q.AskPrice),
		encodeKey(enc, "as"), enc.EncodeFloat64(q.AskSize),
		encodeKey(enc, "bx"), enc.EncodeInt(int64(q.BidExchange)),
		encodeKey(enc, "bp"), enc.EncodeFloat64(q.BidPrice),
		encodeKey(enc, "bs"), enc.EncodeFloat64(q.BidSize),
		encodeKey(enc, "c"), enc.Encode(q.Conditions),
		encodeKey(enc, "in"), enc.Encode(q.Indicators),
		encodeKey(enc, "y"), enc.Encode(q.ParticipantTimestamp),
		encodeKey(enc, "q"), enc.EncodeInt(q.SequenceNumber),
		encodeKey(enc, "t"), enc.EncodeInt(q.SIPTimestamp),
		encodeKey(enc, "z"), enc.EncodeUint(uint64(q.Tape)),
		encodeKey(enc, "rt"), enc.Encode(q.TRFTimestamp),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (q *Quote) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	*q = Quote{}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		switch key {
		case "S":
			q.Ticker, err = dec.DecodeString()
		case "ax":
			q.AskExchange, err = dec.DecodeInt()
		case "ap":
			q.AskPrice, err = dec.DecodeFloat64()
		case "as":
			q.AskSize, err = dec.DecodeFloat64()
		case "bx":
			q.BidExchange, err = dec.DecodeInt()
		case "bp":
			q.BidPrice, err = dec.DecodeFloat64()
		case "bs":
			q.BidSize, err = dec.DecodeFloat64()
		case "c":
			err = dec.Decode(&q.Conditions)
		case "in":
			err = dec.Decode(&q.Indicators)
		case "y":
			err = dec.Decode(&q.ParticipantTimestamp)
		case "q":
			q.SequenceNumber, err = dec.DecodeInt64()
		case "t":
			q.SIPTimestamp, err = dec.DecodeInt64()
		case "z":
			var tape uint8
			tape, err = dec.DecodeUint8()
			q.Tape = Tape(tape)
		case "rt":
			err = dec.Decode(&q.TRFTimestamp)
		default:
			err = dec.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeKey(enc *msgpack.Encoder, key string) error {
	return enc.EncodeString(key)
}
