package flatfiles

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/alpacahq/alpaca-flatfiles-go/objstore"
)

// DefaultConcurrency is the number of parallel downloads DownloadDays uses
// when none is given.
const DefaultConcurrency = 4

// ObjectStore is the part of *objstore.Client the flat file client uses.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	DownloadTo(ctx context.Context, key, path string) (int64, error)
	ListAll(ctx context.Context, params objstore.ListParams) ([]objstore.ObjectSummary, error)
}

var _ ObjectStore = (*objstore.Client)(nil)

// ClientOpts contains options for the flat file client.
type ClientOpts struct {
	// Store serves the objects. If nil, an *objstore.Client configured
	// from the environment is used.
	Store  ObjectStore
	Logger *slog.Logger
	// Concurrency is used by DownloadDays when it is called without one.
	// Defaults to DefaultConcurrency.
	Concurrency int
	// DownloadDir is used by DownloadDayTo when it is called without a
	// directory. Defaults to the working directory.
	DownloadDir string
}

// Client fetches and decodes the flat files of one bucket.
type Client struct {
	store       ObjectStore
	logger      *slog.Logger
	concurrency int
	downloadDir string
}

// NewClient creates a new flat file client using the given opts.
func NewClient(opts ClientOpts) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store == nil {
		opts.Store = objstore.NewClient(objstore.ClientOpts{Logger: opts.Logger})
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Client{
		store:       opts.Store,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		downloadDir: opts.DownloadDir,
	}
}

// DownloadDay returns the raw, still compressed, file of a day. date must
// be formatted as YYYY-MM-DD.
func (c *Client) DownloadDay(ctx context.Context, assetClass AssetClass, dataType DataType, date string) ([]byte, error) {
	key, err := Key(assetClass, dataType, date)
	if err != nil {
		return nil, err
	}
	return c.store.Download(ctx, key)
}

// DownloadDayTo stores the file of a day under dir, mirroring the layout of
// the bucket, and returns its path. An empty dir means the client's
// DownloadDir. The file is streamed to disk, so this is the way to fetch
// large trades and quotes files.
func (c *Client) DownloadDayTo(
	ctx context.Context, assetClass AssetClass, dataType DataType, date civil.Date, dir string,
) (string, error) {
	if dir == "" {
		dir = c.downloadDir
	}
	key := KeyForDate(assetClass, dataType, date)
	path := filepath.Join(dir, filepath.FromSlash(key))
	n, err := c.store.DownloadTo(ctx, key, path)
	if err != nil {
		return "", err
	}
	c.logger.DebugContext(ctx, "flat file stored", slog.String("key", key), slog.String("path", path), slog.Int64("bytes", n))
	return path, nil
}

// ListFiles lists the files of a data type. Zero year or month lists every
// year or month.
func (c *Client) ListFiles(
	ctx context.Context, assetClass AssetClass, dataType DataType, year, month int,
) ([]objstore.ObjectSummary, error) {
	return c.store.ListAll(ctx, objstore.ListParams{
		Prefix: Prefix(assetClass, dataType, year, month),
	})
}

// DownloadDays downloads the files of several days with at most concurrency
// downloads in flight, or the client's Concurrency if concurrency is not
// positive. The result is aligned with dates. Days without a file, such as
// weekends and market holidays, are left nil. The first other error cancels
// the remaining downloads.
func (c *Client) DownloadDays(
	ctx context.Context, assetClass AssetClass, dataType DataType, dates []civil.Date, concurrency int,
) ([][]byte, error) {
	if concurrency <= 0 {
		concurrency = c.concurrency
	}
	files := make([][]byte, len(dates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, date := range dates {
		key := KeyForDate(assetClass, dataType, date)
		g.Go(func() error {
			data, err := c.store.Download(ctx, key)
			if errors.Is(err, objstore.ErrNotFound) {
				c.logger.DebugContext(ctx, "no flat file for day", slog.String("key", key))
				return nil
			}
			if err != nil {
				return err
			}
			files[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// MinuteAggregates downloads and parses the minute bars of a day.
func (c *Client) MinuteAggregates(ctx context.Context, assetClass AssetClass, date civil.Date) ([]MinuteAggregate, error) {
	return fetch(ctx, c, KeyForDate(assetClass, MinuteAggsV1, date), ParseMinuteAggregates)
}

// DayAggregates downloads and parses the day bars of every ticker for a day.
func (c *Client) DayAggregates(ctx context.Context, assetClass AssetClass, date civil.Date) ([]DayAggregate, error) {
	return fetch(ctx, c, KeyForDate(assetClass, DayAggsV1, date), ParseDayAggregates)
}

// Trades downloads and parses the trades of a day. The whole file is held
// in memory: for full market days prefer DownloadDayTo and ScanTrades.
func (c *Client) Trades(ctx context.Context, assetClass AssetClass, date civil.Date) ([]Trade, error) {
	return fetch(ctx, c, KeyForDate(assetClass, TradesV1, date), ParseTrades)
}

// Quotes downloads and parses the quotes of a day. The whole file is held
// in memory: for full market days prefer DownloadDayTo and ScanQuotes.
func (c *Client) Quotes(ctx context.Context, assetClass AssetClass, date civil.Date) ([]Quote, error) {
	return fetch(ctx, c, KeyForDate(assetClass, QuotesV1, date), ParseQuotes)
}

func fetch[T any](ctx context.Context, c *Client, key string, parse func([]byte) ([]T, error)) ([]T, error) {
	data, err := c.store.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	records, err := parse(data)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "flat file parsed", slog.String("key", key), slog.Int("records", len(records)))
	return records, nil
}
