package objstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	pages []*ListPage
	errAt int
	calls []ListParams
}

func (f *fakeLister) List(_ context.Context, params ListParams) (*ListPage, error) {
	f.calls = append(f.calls, params)
	i := len(f.calls) - 1
	if f.errAt > 0 && i == f.errAt {
		return nil, errors.New("boom")
	}
	return f.pages[i], nil
}

func threePages() []*ListPage {
	return []*ListPage{
		{IsTruncated: true, NextContinuationToken: "t1", Objects: []ObjectSummary{{Key: "a"}, {Key: "b"}}},
		{IsTruncated: true, NextContinuationToken: "t2", Objects: []ObjectSummary{{Key: "c"}}},
		{Objects: []ObjectSummary{{Key: "d"}}},
	}
}

func TestListPaginator(t *testing.T) {
	l := &fakeLister{pages: threePages()}
	p := NewListPaginator(l, ListParams{Prefix: "p/", MaxKeys: 2})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(context.Background())
		require.NoError(t, err)
		for _, o := range page.Objects {
			keys = append(keys, o.Key)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
	require.Len(t, l.calls, 3)
	assert.Equal(t, ListParams{Prefix: "p/", MaxKeys: 2}, l.calls[0])
	assert.Equal(t, "t1", l.calls[1].ContinuationToken)
	assert.Equal(t, "t2", l.calls[2].ContinuationToken)

	_, err := p.NextPage(context.Background())
	assert.ErrorIs(t, err, ErrPaginationDone)
	assert.Len(t, l.calls, 3)
}

func TestListPaginatorIsLazy(t *testing.T) {
	l := &fakeLister{pages: threePages()}
	p := NewListPaginator(l, ListParams{})
	assert.Empty(t, l.calls)

	_, err := p.NextPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, l.calls, 1)
	assert.True(t, p.HasMorePages())
}

func TestListPaginatorStopsOnEmptyToken(t *testing.T) {
	l := &fakeLister{pages: []*ListPage{{IsTruncated: true}}}
	p := NewListPaginator(l, ListParams{})

	_, err := p.NextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, p.HasMorePages())
}

func TestListPaginatorStopsOnError(t *testing.T) {
	l := &fakeLister{pages: threePages(), errAt: 1}
	p := NewListPaginator(l, ListParams{})

	_, err := p.NextPage(context.Background())
	require.NoError(t, err)
	_, err = p.NextPage(context.Background())
	assert.EqualError(t, err, "boom")
	assert.False(t, p.HasMorePages())
	_, err = p.NextPage(context.Background())
	assert.ErrorIs(t, err, ErrPaginationDone)
	assert.Len(t, l.calls, 2)
}

func listHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("continuation-token") {
		case "":
			fmt.Fprint(w, `<ListBucketResult>
  <IsTruncated>true</IsTruncated><NextContinuationToken>next</NextContinuationToken>
  <Contents><Key>a</Key><LastModified>2024-01-01T00:00:00Z</LastModified><ETag>"1"</ETag><Size>1</Size></Contents>
</ListBucketResult>`)
		case "next":
			fmt.Fprint(w, `<ListBucketResult>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>b</Key><LastModified>2024-01-01T00:00:00Z</LastModified><ETag>"2"</ETag><Size>2</Size></Contents>
</ListBucketResult>`)
		default:
			t.Errorf("unexpected continuation token %q", r.URL.Query().Get("continuation-token"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func TestListAll(t *testing.T) {
	c, _ := newTestClient(t, listHandler(t))

	objects, err := c.ListAll(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "a", objects[0].Key)
	assert.Equal(t, "b", objects[1].Key)
}

func TestListAllAsync(t *testing.T) {
	c, _ := newTestClient(t, listHandler(t))

	var keys []string
	err := c.ListAllAsync(context.Background(), ListParams{}, func(page *ListPage, err error) bool {
		require.NoError(t, err)
		for _, o := range page.Objects {
			keys = append(keys, o.Key)
		}
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestListAllAsyncStopEarly(t *testing.T) {
	requests := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		listHandler(t)(w, r)
	})

	pages := 0
	err := c.ListAllAsync(context.Background(), ListParams{}, func(page *ListPage, err error) bool {
		pages++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 1, requests)
}

func TestListAllAsyncError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	var gotErr error
	err := c.ListAllAsync(context.Background(), ListParams{}, func(page *ListPage, err error) bool {
		gotErr = err
		return true
	})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, err, gotErr)
}
