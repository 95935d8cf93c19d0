package flatfiles

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/alpacahq/alpaca-flatfiles-go/objstore"
)

// AssetClass is the top level directory of the flat file bucket.
type AssetClass string

const (
	USStocksSIP   AssetClass = "us_stocks_sip"
	USOptionsOPRA AssetClass = "us_options_opra"
	Indices       AssetClass = "indices"
	Forex         AssetClass = "forex"
	Crypto        AssetClass = "crypto"
)

// DataType is the kind of records a flat file holds.
type DataType string

const (
	TradesV1     DataType = "trades_v1"
	QuotesV1     DataType = "quotes_v1"
	MinuteAggsV1 DataType = "minute_aggs_v1"
	DayAggsV1    DataType = "day_aggs_v1"
)

// ErrInvalidDate is returned by Key for dates that are not in YYYY-MM-DD
// form. It matches objstore.ErrInvalidResponse too.
var ErrInvalidDate = fmt.Errorf("%w: invalid date", objstore.ErrInvalidResponse)

// Key returns the object key of the file for date, which must be formatted
// as YYYY-MM-DD.
func Key(assetClass AssetClass, dataType DataType, date string) (string, error) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("%w %q", ErrInvalidDate, date)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s.csv.gz", assetClass, dataType, parts[0], parts[1], date), nil
}

// KeyForDate is Key for a civil.Date, which can not be malformed.
func KeyForDate(assetClass AssetClass, dataType DataType, date civil.Date) string {
	return fmt.Sprintf("%s/%s/%04d/%02d/%s.csv.gz", assetClass, dataType, date.Year, int(date.Month), date)
}

// Prefix returns the listing prefix for the files of a data type, optionally
// narrowed to a year and a month. Zero year or month is omitted, and month
// is ignored without a year.
func Prefix(assetClass AssetClass, dataType DataType, year, month int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s/", assetClass, dataType)
	if year > 0 {
		fmt.Fprintf(&b, "%04d/", year)
		if month > 0 {
			fmt.Fprintf(&b, "%02d/", month)
		}
	}
	return b.String()
}
