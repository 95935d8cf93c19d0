package ascii

// pow10 covers every fractional digit count Float64 keeps.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18,
}

const maxFracDigits = len(pow10) - 1

func skipSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// OptionalInt64 decodes a base-10 integer with an optional leading sign.
// Decoding stops at the first byte that is not a digit. ok is false when b
// holds no digit at all.
func OptionalInt64(b []byte) (n int64, ok bool) {
	b = skipSpace(b)
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	for _, c := range b {
		if !isDigit(c) {
			break
		}
		n = n*10 + int64(c-'0')
		ok = true
	}
	if neg {
		n = -n
	}
	return n, ok
}

// Int64 is OptionalInt64 with absent values decoded as zero.
func Int64(b []byte) int64 {
	n, _ := OptionalInt64(b)
	return n
}

// OptionalInt is OptionalInt64 narrowed to int.
func OptionalInt(b []byte) (int, bool) {
	n, ok := OptionalInt64(b)
	return int(n), ok
}

// Int is Int64 narrowed to int.
func Int(b []byte) int {
	return int(Int64(b))
}

// OptionalFloat64 decodes a plain decimal number such as "-12.375".
//
// The integer and fractional digit runs are accumulated separately and
// combined as intPart + fracPart/10^fracDigits. Exponents are not
// supported and fractional digits past the eighteenth are ignored, which is
// more than enough for prices and volumes. ok is false when b holds no
// digit at all.
func OptionalFloat64(b []byte) (f float64, ok bool) {
	b = skipSpace(b)
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	var (
		intPart    float64
		fracPart   uint64
		fracDigits int
		inFrac     bool
	)
loop:
	for _, c := range b {
		switch {
		case isDigit(c):
			ok = true
			if !inFrac {
				intPart = intPart*10 + float64(c-'0')
			} else if fracDigits < maxFracDigits {
				fracPart = fracPart*10 + uint64(c-'0')
				fracDigits++
			}
		case c == '.' && !inFrac:
			inFrac = true
		default:
			break loop
		}
	}
	f = intPart
	if fracDigits > 0 {
		f += float64(fracPart) / pow10[fracDigits]
	}
	if neg {
		f = -f
	}
	return f, ok
}

// Float64 is OptionalFloat64 with absent values decoded as zero.
func Float64(b []byte) float64 {
	f, _ := OptionalFloat64(b)
	return f
}

// IntList decodes a comma separated list of integers such as `"12, 37, 41"`
// and appends the values to dst. Surrounding double quotes are optional and
// whitespace around items is ignored, as are items without digits.
func IntList(dst []int, b []byte) []int {
	if n := len(b); n >= 2 && b[0] == '"' && b[n-1] == '"' {
		b = b[1 : n-1]
	}
	start := 0
	for i := 0; i <= len(b); i++ {
		if i < len(b) && b[i] != ',' {
			continue
		}
		if v, ok := OptionalInt(b[start:i]); ok {
			dst = append(dst, v)
		}
		start = i + 1
	}
	return dst
}
