package flatfiles

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-flatfiles-go/objstore"
)

func TestKey(t *testing.T) {
	key, err := Key(USStocksSIP, DayAggsV1, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "us_stocks_sip/day_aggs_v1/2024/01/2024-01-02.csv.gz", key)

	key, err = Key(Crypto, TradesV1, "2023-12")
	require.NoError(t, err)
	assert.Equal(t, "crypto/trades_v1/2023/12/2023-12.csv.gz", key)

	for _, date := range []string{"", "2024", "20240102", "-01-02", "2024-"} {
		_, err := Key(USStocksSIP, TradesV1, date)
		assert.ErrorIs(t, err, ErrInvalidDate, date)
		assert.ErrorIs(t, err, objstore.ErrInvalidResponse, date)
	}
}

func TestKeyForDate(t *testing.T) {
	date := civil.DateOf(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "us_options_opra/quotes_v1/2024/03/2024-03-05.csv.gz", KeyForDate(USOptionsOPRA, QuotesV1, date))

	key, err := Key(USOptionsOPRA, QuotesV1, date.String())
	require.NoError(t, err)
	assert.Equal(t, key, KeyForDate(USOptionsOPRA, QuotesV1, date))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "forex/minute_aggs_v1/", Prefix(Forex, MinuteAggsV1, 0, 0))
	assert.Equal(t, "forex/minute_aggs_v1/2024/", Prefix(Forex, MinuteAggsV1, 2024, 0))
	assert.Equal(t, "forex/minute_aggs_v1/2024/07/", Prefix(Forex, MinuteAggsV1, 2024, 7))
	assert.Equal(t, "indices/day_aggs_v1/", Prefix(Indices, DayAggsV1, 0, 7))
}

func TestDecompressPassthrough(t *testing.T) {
	data := []byte("ticker,volume\nAAPL,1\n")
	out, err := Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	out, err = Decompress(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Decompress([]byte{0x1f})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f}, out)
}

func TestDecompressGzip(t *testing.T) {
	out, err := Decompress(gzipped(t, "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = Decompress([]byte{0x1f, 0x8b, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestNewReader(t *testing.T) {
	for name, data := range map[string][]byte{
		"plain":   []byte("hello"),
		"gzipped": gzipped(t, "hello"),
	} {
		t.Run(name, func(t *testing.T) {
			rc, err := NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer rc.Close()
			out, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(out))
		})
	}

	t.Run("empty", func(t *testing.T) {
		rc, err := NewReader(strings.NewReader(""))
		require.NoError(t, err)
		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("truncated", func(t *testing.T) {
		data := gzipped(t, strings.Repeat("hello", 1000))
		rc, err := NewReader(bytes.NewReader(data[:len(data)-10]))
		require.NoError(t, err)
		_, err = io.ReadAll(rc)
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestTapeString(t *testing.T) {
	assert.Equal(t, "A", NYSE.String())
	assert.Equal(t, "B", NYSEAmerican.String())
	assert.Equal(t, "C", Nasdaq.String())
	assert.Equal(t, NYSE, tapeOf(0))
	assert.Equal(t, Nasdaq, tapeOf(3))
}
