// Package objstore is a minimal client for S3 compatible object stores. It
// lists, downloads and probes objects in a single bucket, signing every
// request with SigV4.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alpacahq/alpaca-flatfiles-go/sigv4"
)

const (
	EnvEndpoint = "FLATFILES_ENDPOINT"
	EnvBucket   = "FLATFILES_BUCKET"
	EnvRegion   = "FLATFILES_REGION"

	DefaultEndpoint = "https://files.polygon.io"
	DefaultBucket   = "flatfiles"

	tracerName = "github.com/alpacahq/alpaca-flatfiles-go/objstore"
)

// ClientOpts contains options for the object store client.
type ClientOpts struct {
	// Endpoint is the origin of the store, e.g. https://files.polygon.io.
	Endpoint string
	Bucket   string
	// Region scopes the signature. Defaults to us-east-1.
	Region      string
	Credentials sigv4.Credentials
	// HTTPClient is the transport used for every request. Connection
	// pooling and keep-alive are left to it.
	HTTPClient *http.Client
	// Timeout is applied when HTTPClient is nil. Zero means no timeout,
	// which is what large downloads usually want.
	Timeout time.Duration
	Logger  *slog.Logger
	// Metrics is optional.
	Metrics *Metrics
}

// Client is the object store client. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	opts   ClientOpts
	signer *sigv4.Signer
	tracer trace.Tracer

	do  func(c *Client, req *http.Request) (*http.Response, error)
	now func() time.Time
}

// NewClient creates a new object store client using the given opts. Empty
// options are filled from the environment, then from the defaults.
func NewClient(opts ClientOpts) *Client {
	if opts.Endpoint == "" {
		if s := os.Getenv(EnvEndpoint); s != "" {
			opts.Endpoint = s
		} else {
			opts.Endpoint = DefaultEndpoint
		}
	}
	if opts.Bucket == "" {
		if s := os.Getenv(EnvBucket); s != "" {
			opts.Bucket = s
		} else {
			opts.Bucket = DefaultBucket
		}
	}
	if opts.Region == "" {
		if s := os.Getenv(EnvRegion); s != "" {
			opts.Region = s
		} else {
			opts.Region = sigv4.DefaultRegion
		}
	}
	if opts.Credentials.IsZero() {
		opts.Credentials = sigv4.CredentialsFromEnv()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: opts.Timeout,
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		opts:   opts,
		signer: sigv4.NewSigner(opts.Credentials, opts.Region),
		tracer: otel.Tracer(tracerName),

		do:  defaultDo,
		now: time.Now,
	}
}

func defaultDo(c *Client, req *http.Request) (*http.Response, error) {
	return c.opts.HTTPClient.Do(req)
}

// Bucket returns the bucket the client operates on.
func (c *Client) Bucket() string {
	return c.opts.Bucket
}

// List returns one page of the bucket listing.
func (c *Client) List(ctx context.Context, params ListParams) (page *ListPage, err error) {
	cl := c.begin(ctx, "list", params.Prefix)
	defer func() { cl.end(err) }()

	u, err := c.url("")
	if err != nil {
		return nil, err
	}
	if params.MaxKeys <= 0 {
		params.MaxKeys = DefaultMaxKeys
	}
	q := url.Values{}
	q.Set("list-type", "2")
	q.Set("max-keys", strconv.Itoa(params.MaxKeys))
	if params.Prefix != "" {
		q.Set("prefix", params.Prefix)
	}
	if params.ContinuationToken != "" {
		q.Set("continuation-token", params.ContinuationToken)
	}
	u.RawQuery = sigv4.CanonicalQueryString(q.Encode())

	resp, err := cl.send(http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read list response: %w", ErrInvalidResponse, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPError(resp.StatusCode, body)
	}
	return DecodeListPage(body)
}

// ListAll returns every object under params.Prefix. It blocks until all the
// pages are collected. If you want to process the pages as they arrive, use
// ListAllAsync or a ListPaginator instead!
func (c *Client) ListAll(ctx context.Context, params ListParams) ([]ObjectSummary, error) {
	var objects []ObjectSummary
	p := NewListPaginator(c, params)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		objects = append(objects, page.Objects...)
	}
	return objects, nil
}

// ListAllAsync lists the bucket page by page, triggering the callback on
// each received page. The callback receives the page, or the error that
// ended the listing. It can return false to stop before the next page is
// requested. Pages are fetched only when the previous callback returned.
func (c *Client) ListAllAsync(
	ctx context.Context, params ListParams, callback func(page *ListPage, err error) (keepGoing bool),
) error {
	p := NewListPaginator(c, params)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			callback(nil, err)
			return err
		}
		if !callback(page, nil) {
			return nil
		}
	}
	return nil
}

// Download returns the content of the object at key.
//
// The whole object is buffered in memory, which is unsuitable for
// arbitrarily large objects: use DownloadTo for those.
func (c *Client) Download(ctx context.Context, key string) (data []byte, err error) {
	cl := c.begin(ctx, "download", key)
	defer func() { cl.end(err) }()

	resp, err := cl.sendObject(http.MethodGet, key)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkObjectResponse(resp, key); err != nil {
		return nil, err
	}
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("objstore: read %q: %w", key, err)
	}
	c.opts.Metrics.addBytes(int64(len(data)))
	return data, nil
}

// DownloadTo streams the object at key into the file at path and returns
// the number of bytes written. The data is written to a temporary file next
// to path that is renamed once complete, so path never holds a partial
// object.
func (c *Client) DownloadTo(ctx context.Context, key, path string) (written int64, err error) {
	cl := c.begin(ctx, "download_to", key)
	defer func() { cl.end(err) }()

	resp, err := cl.sendObject(http.MethodGet, key)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkObjectResponse(resp, key); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("objstore: create directory for %q: %w", path, err)
	}

	tmp := path + "." + ulid.Make().String() + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("objstore: create %q: %w", tmp, err)
	}
	written, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("objstore: download %q to %q: %w", key, path, err)
	}
	c.opts.Metrics.addBytes(written)
	return written, nil
}

// Head returns the metadata of the object at key, or nil without an error
// if the object does not exist.
func (c *Client) Head(ctx context.Context, key string) (meta *ObjectMetadata, err error) {
	cl := c.begin(ctx, "head", key)
	defer func() { cl.end(err) }()

	resp, err := cl.sendObject(http.MethodHead, key)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return metadataFromResponse(key, resp), nil
	case http.StatusNotFound:
		return nil, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, newHTTPError(resp.StatusCode, body)
	}
}

func metadataFromResponse(key string, resp *http.Response) *ObjectMetadata {
	meta := &ObjectMetadata{
		Key:         key,
		ETag:        unquoteETag(resp.Header.Get("ETag")),
		ContentType: resp.Header.Get("Content-Type"),
	}
	switch {
	case resp.ContentLength >= 0:
		meta.Size = resp.ContentLength
	default:
		meta.Size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}
	if s := resp.Header.Get("Last-Modified"); s != "" {
		if t, err := http.ParseTime(s); err == nil {
			meta.LastModified = &t
		}
	}
	return meta
}

func checkObjectResponse(resp *http.Response, key string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return &NotFoundError{Key: key}
	default:
		body, _ := io.ReadAll(resp.Body)
		return newHTTPError(resp.StatusCode, body)
	}
}

func newHTTPError(status int, body []byte) error {
	e := &HTTPError{StatusCode: status}
	if len(bytes.TrimSpace(body)) > 0 {
		if code, message, err := DecodeError(body); err == nil {
			e.Code, e.Message = code, message
		}
	}
	return e
}

// url returns the URL of key in the bucket, or of the bucket itself when
// key is empty.
func (c *Client) url(key string) (*url.URL, error) {
	base, err := url.Parse(c.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint %q: %w", ErrInvalidResponse, c.opts.Endpoint, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: endpoint %q is not an absolute URL", ErrInvalidResponse, c.opts.Endpoint)
	}
	p := strings.TrimSuffix(base.Path, "/") + "/" + c.opts.Bucket
	if key != "" {
		p += "/" + strings.TrimPrefix(key, "/")
	}
	return &url.URL{Scheme: base.Scheme, Host: base.Host, Path: p}, nil
}

// call tracks one operation for tracing, metrics and logging.
type call struct {
	c      *Client
	ctx    context.Context
	op     string
	key    string
	span   trace.Span
	start  time.Time
	status int
}

func (c *Client) begin(ctx context.Context, op, key string) *call {
	ctx, span := c.tracer.Start(ctx, "objstore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("s3.bucket", c.opts.Bucket),
			attribute.String("s3.key", key),
		),
	)
	return &call{
		c:     c,
		ctx:   ctx,
		op:    op,
		key:   key,
		span:  span,
		start: time.Now(),
	}
}

func (cl *call) sendObject(method, key string) (*http.Response, error) {
	u, err := cl.c.url(key)
	if err != nil {
		return nil, err
	}
	return cl.send(method, u)
}

// send signs and issues a bodiless request. Every request is signed afresh
// since signatures are only valid around the signing instant.
func (cl *call) send(method string, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(cl.ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	cl.c.signer.Sign(req, nil, cl.c.now())

	resp, err := cl.c.do(cl.c, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, u.Path, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s %s: no response", ErrInvalidResponse, method, u.Path)
	}
	cl.status = resp.StatusCode
	return resp, nil
}

func (cl *call) end(err error) {
	d := time.Since(cl.start)
	cl.c.opts.Metrics.observe(cl.op, cl.status, d)

	if cl.status != 0 {
		cl.span.SetAttributes(attribute.Int("http.status_code", cl.status))
	}
	attrs := []slog.Attr{
		slog.String("op", cl.op),
		slog.String("bucket", cl.c.opts.Bucket),
		slog.String("key", cl.key),
		slog.Int("status", cl.status),
		slog.Duration("duration", d),
	}
	if err != nil {
		cl.span.RecordError(err)
		cl.span.SetStatus(codes.Error, err.Error())
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	cl.span.End()
	cl.c.opts.Logger.LogAttrs(cl.ctx, slog.LevelDebug, "objstore request", attrs...)
}
