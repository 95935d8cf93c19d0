package objstore

import "time"

// DefaultMaxKeys is the page size used when ListParams.MaxKeys is zero.
const DefaultMaxKeys = 1000

// ObjectSummary is one entry of a list page.
type ObjectSummary struct {
	Key          string
	Size         int64
	LastModified time.Time
	// ETag is the entity tag without its surrounding quotes.
	ETag         string
	StorageClass string
}

// ListPage is one page of a bucket listing. Objects keep the server order.
// NextContinuationToken is only set when IsTruncated is true.
type ListPage struct {
	Name                  string
	Prefix                string
	KeyCount              int
	MaxKeys               int
	IsTruncated           bool
	NextContinuationToken string
	Objects               []ObjectSummary
}

// ListParams contains optional parameters for listing objects.
type ListParams struct {
	// Prefix limits the listing to keys beginning with it.
	Prefix string
	// MaxKeys is the page size. If zero, DefaultMaxKeys is used.
	MaxKeys int
	// ContinuationToken resumes a truncated listing.
	ContinuationToken string
}

// ObjectMetadata is what a HEAD request reports about an object.
type ObjectMetadata struct {
	Key          string
	Size         int64
	LastModified *time.Time
	ETag         string
	ContentType  string
}
