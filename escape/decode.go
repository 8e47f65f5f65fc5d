package escape

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEscape reports an escape sequence Decode cannot reverse.
var ErrInvalidEscape = errors.New("invalid escape sequence")

// Decode reverses the encoding of one field: \xHH (exactly two hex
// digits), \uHHHH (exactly four), \, \\ and \" unwrap to their
// literal byte, and doubled quotes collapse to one. A lone quote is a
// field wrapper and stays literal. Unknown or truncated escapes are
// errors carrying the byte offset.
//
// Code points above 0xFFFF are encoded with more than four hex
// digits; Decode consumes exactly four, so such fields do not round
// trip. Lines produced from two-byte strings stay within the basic
// plane.
func Decode(s string) (string, error) {
	if !strings.ContainsAny(s, "\\\"") {
		return s, nil
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", fmt.Errorf("%w: truncated at byte %d", ErrInvalidEscape, i)
			}
			switch s[i+1] {
			case ',', '\\', '"':
				out = append(out, s[i+1])
				i += 2
			case 'x':
				v, ok := hexValue(s, i+2, 2)
				if !ok {
					return "", fmt.Errorf("%w: \\x wants two hex digits at byte %d", ErrInvalidEscape, i)
				}
				out = utf8.AppendRune(out, rune(v))
				i += 4
			case 'u':
				v, ok := hexValue(s, i+2, 4)
				if !ok {
					return "", fmt.Errorf("%w: \\u wants four hex digits at byte %d", ErrInvalidEscape, i)
				}
				out = utf8.AppendRune(out, rune(v))
				i += 6
			default:
				return "", fmt.Errorf("%w: \\%c at byte %d", ErrInvalidEscape, s[i+1], i)
			}
		case '"':
			if i+1 < len(s) && s[i+1] == '"' {
				i += 2
			} else {
				i++
			}
			out = append(out, '"')
		default:
			out = append(out, s[i])
			i++
		}
	}
	return string(out), nil
}

// hexValue parses exactly n hex digits of s starting at i.
func hexValue(s string, i, n int) (uint32, bool) {
	if i+n > len(s) {
		return 0, false
	}
	var v uint32
	for j := i; j < i+n; j++ {
		c := s[j]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, false
		}
	}
	return v, true
}

// SplitFields splits one raw log line into its comma-separated fields.
// A backslash hides the byte after it and quoted spans keep their
// commas. Field bodies stay encoded; pass them through Decode.
func SplitFields(line string) []string {
	fields := make([]string, 0, 8)
	start := 0
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}
