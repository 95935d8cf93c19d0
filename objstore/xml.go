package objstore

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DecodeListPage decodes a ListBucketResult document.
//
// The document is walked token by token and never materialized as a tree,
// since a page may hold thousands of entries. Contents entries missing any
// of Key, Size, LastModified or ETag are dropped.
func DecodeListPage(data []byte) (*ListPage, error) {
	var acc listAccumulator
	if err := walk(data, "ListBucketResult", &acc); err != nil {
		return nil, err
	}
	if !acc.page.IsTruncated {
		acc.page.NextContinuationToken = ""
	}
	return &acc.page, nil
}

// DecodeError decodes an S3 Error document into its code and message.
func DecodeError(data []byte) (code, message string, err error) {
	var acc errorAccumulator
	if err := walk(data, "Error", &acc); err != nil {
		return "", "", err
	}
	return acc.code, acc.message, nil
}

// accumulator receives the elements of a document. depth is 1 for the root
// element. text is the character data of the element being closed and is
// only valid during the call.
type accumulator interface {
	start(name string, depth int)
	end(name string, depth int, text []byte)
}

func walk(data []byte, root string, acc accumulator) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	var (
		text  []byte
		depth int
		seen  bool
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &XMLParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if t.Name.Local != root {
					return &XMLParseError{Err: fmt.Errorf("unexpected root element <%s>, want <%s>", t.Name.Local, root)}
				}
				seen = true
			}
			text = text[:0]
			acc.start(t.Name.Local, depth)
		case xml.CharData:
			text = append(text, t...)
		case xml.EndElement:
			acc.end(t.Name.Local, depth, bytes.TrimSpace(text))
			text = text[:0]
			depth--
		}
	}
	if !seen {
		return &XMLParseError{Err: fmt.Errorf("missing <%s> element", root)}
	}
	return nil
}

type listAccumulator struct {
	page ListPage

	inContents bool
	entry      ObjectSummary
	// bit set of the required Contents fields seen so far
	have uint8
}

const (
	haveKey uint8 = 1 << iota
	haveSize
	haveLastModified
	haveETag

	haveAll = haveKey | haveSize | haveLastModified | haveETag
)

func (a *listAccumulator) start(name string, depth int) {
	if depth == 2 && name == "Contents" {
		a.inContents = true
		a.entry = ObjectSummary{}
		a.have = 0
	}
}

func (a *listAccumulator) end(name string, depth int, text []byte) {
	if a.inContents {
		switch {
		case depth == 2 && name == "Contents":
			a.inContents = false
			if a.have == haveAll {
				a.page.Objects = append(a.page.Objects, a.entry)
			}
		case depth == 3:
			a.contentsField(name, text)
		}
		return
	}
	if depth != 2 {
		return
	}
	switch name {
	case "Name":
		a.page.Name = string(text)
	case "Prefix":
		a.page.Prefix = string(text)
	case "KeyCount":
		a.page.KeyCount, _ = strconv.Atoi(string(text))
	case "MaxKeys":
		a.page.MaxKeys, _ = strconv.Atoi(string(text))
	case "IsTruncated":
		a.page.IsTruncated = string(text) == "true"
	case "NextContinuationToken":
		a.page.NextContinuationToken = string(text)
	}
}

func (a *listAccumulator) contentsField(name string, text []byte) {
	switch name {
	case "Key":
		a.entry.Key = string(text)
		a.have |= haveKey
	case "Size":
		if n, err := strconv.ParseInt(string(text), 10, 64); err == nil && n >= 0 {
			a.entry.Size = n
			a.have |= haveSize
		}
	case "LastModified":
		if ts, err := parseTimestamp(string(text)); err == nil {
			a.entry.LastModified = ts
			a.have |= haveLastModified
		}
	case "ETag":
		a.entry.ETag = unquoteETag(string(text))
		a.have |= haveETag
	case "StorageClass":
		a.entry.StorageClass = string(text)
	}
}

type errorAccumulator struct {
	code    string
	message string
}

func (a *errorAccumulator) start(string, int) {}

func (a *errorAccumulator) end(name string, depth int, text []byte) {
	if depth != 2 {
		return
	}
	switch name {
	case "Code":
		a.code = string(text)
	case "Message":
		a.message = string(text)
	}
}

// parseTimestamp accepts ISO 8601 instants with or without fractional
// seconds.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func unquoteETag(s string) string {
	return strings.Trim(s, `"`)
}
