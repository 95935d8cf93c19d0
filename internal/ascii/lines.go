// Package ascii holds the byte-level primitives used by the flat file
// parsers: line and field splitting over borrowed sub-slices and numeric
// decoding straight from ASCII bytes, without intermediate strings.
package ascii

import "bytes"

// NextLine returns the first line of data without its terminator and the
// remainder after it. Both "\n" and "\r\n" terminate a line. A final line
// that has no terminator is only returned when it is non-empty; ok is false
// once nothing is left.
func NextLine(data []byte) (line, rest []byte, ok bool) {
	if len(data) == 0 {
		return nil, nil, false
	}
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return dropCR(data), nil, true
	}
	return dropCR(data[:i]), data[i+1:], true
}

// ScanLines is a bufio.SplitFunc with the same line semantics as NextLine,
// for decoding files that are too large to hold in memory.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, dropCR(data[:i]), nil
	}
	if atEOF {
		return len(data), dropCR(data), nil
	}
	return 0, nil, nil
}

func dropCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

// SplitFields splits line on every comma and appends the fields to dst.
// Quotes are not interpreted.
func SplitFields(dst [][]byte, line []byte) [][]byte {
	start := 0
	for i, c := range line {
		if c == ',' {
			dst = append(dst, line[start:i])
			start = i + 1
		}
	}
	return append(dst, line[start:])
}

// SplitQuotedFields splits line on commas that are not inside a double
// quoted section and appends the fields to dst. The quotes are kept as part
// of the field so that list decoders can see them.
func SplitQuotedFields(dst [][]byte, line []byte) [][]byte {
	start := 0
	quoted := false
	for i, c := range line {
		switch c {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				dst = append(dst, line[start:i])
				start = i + 1
			}
		}
	}
	return append(dst, line[start:])
}
