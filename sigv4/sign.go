// Package sigv4 signs S3 requests with AWS Signature Version 4.
//
// Only header based signing is implemented. The signed header set is fixed
// to host, x-amz-content-sha256 and x-amz-date, which is what S3 compatible
// servers require for GET and HEAD requests.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	// Algorithm is the signing algorithm identifier.
	Algorithm = "AWS4-HMAC-SHA256"
	// DefaultRegion is used when no region is configured.
	DefaultRegion = "us-east-1"
	// EmptyPayloadHash is the hex SHA-256 of an empty body.
	EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	service         = "s3"
	terminator      = "aws4_request"
	amzDateFormat   = "20060102T150405Z"
	dateStampFormat = "20060102"
	signedHeaders   = "host;x-amz-content-sha256;x-amz-date"
)

// Signer adds SigV4 authentication headers to requests.
// It is safe for concurrent use.
type Signer struct {
	creds  Credentials
	region string
}

// NewSigner returns a Signer for the given credentials and region.
func NewSigner(creds Credentials, region string) *Signer {
	if region == "" {
		region = DefaultRegion
	}
	return &Signer{
		creds:  creds,
		region: region,
	}
}

// Region returns the region requests are scoped to.
func (s *Signer) Region() string {
	return s.region
}

// Sign sets the Host, X-Amz-Date, X-Amz-Content-Sha256 and Authorization
// headers of req. body is the exact request payload (nil for GET and HEAD)
// and t is the signing instant. The path is sent exactly as it was signed.
func (s *Signer) Sign(req *http.Request, body []byte, t time.Time) {
	t = t.UTC()
	amzDate := t.Format(amzDateFormat)
	dateStamp := t.Format(dateStampFormat)
	payloadHash := PayloadHash(body)

	host := req.URL.Host
	if host == "" {
		host = req.Host
	}
	req.Host = host
	req.Header.Set("Host", host)
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	uri := CanonicalURI(req.URL.Path)
	req.URL.RawPath = uri

	canonicalRequest := strings.Join([]string{
		req.Method,
		uri,
		CanonicalQueryString(req.URL.RawQuery),
		canonicalHeaders(host, payloadHash, amzDate),
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := credentialScope(dateStamp, s.region)
	stringToSign := Algorithm + "\n" + amzDate + "\n" + scope + "\n" + hexSHA256([]byte(canonicalRequest))
	signature := hex.EncodeToString(hmacSHA256(signingKey(s.creds.SecretAccessKey, dateStamp, s.region), []byte(stringToSign)))

	req.Header.Set("Authorization", Algorithm+
		" Credential="+s.creds.AccessKeyID+"/"+scope+
		",SignedHeaders="+signedHeaders+
		",Signature="+signature)
}

func credentialScope(dateStamp, region string) string {
	return dateStamp + "/" + region + "/" + service + "/" + terminator
}

// canonicalHeaders lists the signed headers in sorted order, each one
// terminated by a newline.
func canonicalHeaders(host, payloadHash, amzDate string) string {
	return "host:" + strings.TrimSpace(host) + "\n" +
		"x-amz-content-sha256:" + payloadHash + "\n" +
		"x-amz-date:" + amzDate + "\n"
}

func signingKey(secret, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(terminator))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PayloadHash returns the lowercase hex SHA-256 of body.
func PayloadHash(body []byte) string {
	if len(body) == 0 {
		return EmptyPayloadHash
	}
	return hexSHA256(body)
}

// CanonicalURI encodes a decoded request path, keeping the slashes.
func CanonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	return EncodeURI(path, false)
}

// CanonicalQueryString re-serializes a raw query with parameters sorted by
// name (then value) and every reserved byte, including '/', percent
// encoded.
func CanonicalQueryString(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, _ := url.ParseQuery(rawQuery)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := values[k]
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(EncodeURI(k, true))
			b.WriteByte('=')
			b.WriteString(EncodeURI(v, true))
		}
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

// EncodeURI percent-encodes every byte outside A-Z, a-z, 0-9 and "-._~"
// using uppercase hex. '/' is kept as is unless encodeSlash is set.
func EncodeURI(s string, encodeSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c), c == '/' && !encodeSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&15])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' ||
		'a' <= c && c <= 'z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
