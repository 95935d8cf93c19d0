package ascii

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectLines(data string) []string {
	var lines []string
	rest := []byte(data)
	for {
		line, r, ok := NextLine(rest)
		if !ok {
			return lines
		}
		lines = append(lines, string(line))
		rest = r
	}
}

func TestNextLine(t *testing.T) {
	assert.Equal(t, []string{"a,b", "1,2"}, collectLines("a,b\n1,2\n"))
	assert.Equal(t, []string{"a,b", "1,2"}, collectLines("a,b\r\n1,2\r\n"))
	assert.Equal(t, []string{"a,b", "1,2"}, collectLines("a,b\n1,2"))
	assert.Equal(t, []string{"a", "", "b"}, collectLines("a\n\nb"))
	assert.Nil(t, collectLines(""))
}

func TestScanLinesMatchesNextLine(t *testing.T) {
	for _, data := range []string{"a,b\n1,2\n", "a,b\r\n1,2", "x\n\ny\r\n", ""} {
		sc := bufio.NewScanner(strings.NewReader(data))
		sc.Split(ScanLines)
		var got []string
		for sc.Scan() {
			got = append(got, sc.Text())
		}
		require.NoError(t, sc.Err())
		assert.Equal(t, collectLines(data), got, "input %q", data)
	}
}

func toStrings(fields [][]byte) []string {
	s := make([]string, len(fields))
	for i, f := range fields {
		s[i] = string(f)
	}
	return s
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "100", "", "1.5"}, toStrings(SplitFields(nil, []byte("AAPL,100,,1.5"))))
	assert.Equal(t, []string{""}, toStrings(SplitFields(nil, nil)))

	scratch := make([][]byte, 0, 8)
	fields := SplitFields(scratch[:0], []byte("a,b"))
	assert.Len(t, fields, 2)
	fields = SplitFields(fields[:0], []byte("c"))
	assert.Equal(t, []string{"c"}, toStrings(fields))
}

func TestSplitQuotedFields(t *testing.T) {
	line := []byte(`AAPL,"12, 37, 41",0,4,1`)
	assert.Equal(t, []string{"AAPL", `"12, 37, 41"`, "0", "4", "1"}, toStrings(SplitQuotedFields(nil, line)))

	// without quotes it behaves like SplitFields
	assert.Equal(t, []string{"a", "b", "c"}, toStrings(SplitQuotedFields(nil, []byte("a,b,c"))))
}

func TestInt64(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"1704205800000000000", 1704205800000000000, true},
		{"-42", -42, true},
		{" 7", 7, true},
		{"+7", 7, true},
		{"12.5", 12, true},
		{"", 0, false},
		{"-", 0, false},
		{"+", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := OptionalInt64([]byte(tt.in))
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
	assert.Equal(t, 12, Int([]byte("12")))
	assert.Zero(t, Int64(nil))
}

func TestFloat64(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"185.5", 185.5, true},
		{"-0.25", -0.25, true},
		{"+3", 3, true},
		{"42", 42, true},
		{".5", 0.5, true},
		{"0.0001", 0.0001, true},
		{"169.12", 169.12, true},
		{"", 0, false},
		{".", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := OptionalFloat64([]byte(tt.in))
		assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
	assert.Zero(t, Float64([]byte("")))
}

func TestIntList(t *testing.T) {
	assert.Equal(t, []int{12, 37, 41}, IntList(nil, []byte(`"12, 37, 41"`)))
	assert.Equal(t, []int{12, 37, 41}, IntList(nil, []byte("12,37,41")))
	assert.Equal(t, []int{14}, IntList(nil, []byte("14")))
	assert.Equal(t, []int{1, 2}, IntList(nil, []byte(`" 1 ,, 2 "`)))
	assert.Nil(t, IntList(nil, []byte("")))
	assert.Nil(t, IntList(nil, []byte(`""`)))
}
