package flatfiles

import (
	"context"

	"cloud.google.com/go/civil"
	movingaverage "github.com/RobinUS2/golang-moving-average"
	"github.com/shopspring/decimal"
)

// ADTVParams contains the parameters for calculating the Average Daily
// Trading Volume.
type ADTVParams struct {
	// AssetClass defaults to USStocksSIP.
	AssetClass AssetClass
	// Start is the inclusive beginning of the interval
	Start civil.Date
	// End is the inclusive end of the interval
	End civil.Date
	// Concurrency is passed to DownloadDays. Zero uses the client's.
	Concurrency int
}

// ADTV is the average daily trading volume. It also contains the number of trading days
// the average contains.
type ADTV struct {
	AverageVolume float64
	Days          int
}

// ADTV calculates the average daily trading volume of ticker from the day
// aggregate files of the interval. Days without a file or without a bar for
// ticker are not counted.
func (c *Client) ADTV(ctx context.Context, ticker string, params ADTVParams) (*ADTV, error) {
	if params.AssetClass == "" {
		params.AssetClass = USStocksSIP
	}
	var dates []civil.Date
	for d := params.Start; !d.After(params.End); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	files, err := c.DownloadDays(ctx, params.AssetClass, DayAggsV1, dates, params.Concurrency)
	if err != nil {
		return nil, err
	}

	var (
		totalVolume float64
		count       int
	)
	for _, data := range files {
		if data == nil {
			continue
		}
		bars, err := ParseDayAggregates(data)
		if err != nil {
			return nil, err
		}
		for _, bar := range bars {
			if bar.Ticker == ticker {
				totalVolume += bar.Volume
				count++
				break
			}
		}
	}
	if count == 0 {
		return &ADTV{}, nil
	}
	return &ADTV{
		AverageVolume: totalVolume / float64(count),
		Days:          count,
	}, nil
}

// SimpleMovingAverage returns the moving averages of the closing prices over
// window bars. The first value is the average of the first window bars, so
// the result is window-1 shorter than bars.
func SimpleMovingAverage(bars []DayAggregate, window int) []float64 {
	if window <= 0 || len(bars) < window {
		return nil
	}
	ma := movingaverage.New(window)
	out := make([]float64, 0, len(bars)-window+1)
	for i, bar := range bars {
		ma.Add(bar.Close)
		if i+1 >= window {
			out = append(out, ma.Avg())
		}
	}
	return out
}

// VWAP returns the volume weighted average price of trades, summed in
// decimal. ok is false when the trades have no volume.
func VWAP(trades []Trade) (vwap decimal.Decimal, ok bool) {
	var notional, volume decimal.Decimal
	for _, t := range trades {
		size := decimal.NewFromFloat(t.Size)
		notional = notional.Add(decimal.NewFromFloat(t.Price).Mul(size))
		volume = volume.Add(size)
	}
	if volume.IsZero() {
		return decimal.Zero, false
	}
	return notional.Div(volume), true
}
