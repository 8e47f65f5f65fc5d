package escape

const hexDigits = "0123456789abcdef"

// appendHex appends v as lowercase hex, zero-padded to at least width
// digits. Values wider than width keep all their digits.
func appendHex(dst []byte, v uint32, width int) []byte {
	var tmp [8]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = hexDigits[v&0xf]
		v >>= 4
	}
	for len(tmp)-i < width {
		i--
		tmp[i] = '0'
	}
	return append(dst, tmp[i:]...)
}

// AppendRune appends the detailed-escape encoding of one code unit to
// dst. Classification order matters: values above 0xFF become \u
// escapes before the printable-range check applies, and the doubled
// quote deliberately differs from the backslash escaping used for
// double-quoted fields.
func AppendRune(dst []byte, c rune) []byte {
	switch {
	case c > 0xff:
		return appendHex(append(dst, '\\', 'u'), uint32(c), 4)
	case c < 32 || c > 126:
		return appendHex(append(dst, '\\', 'x'), uint32(c), 2)
	case c == ',':
		return append(dst, '\\', ',')
	case c == '\\':
		return append(dst, '\\', '\\')
	case c == '"':
		return append(dst, '"', '"')
	default:
		return append(dst, byte(c))
	}
}

// AppendUnbufferedRune appends the unbuffered-path encoding of one
// code unit to dst. Printable bytes pass through with only quote and
// backslash doubling; commas stay literal on this path.
func AppendUnbufferedRune(dst []byte, c rune) []byte {
	if c >= 32 && c <= 126 {
		switch c {
		case '"':
			return append(dst, '"', '"')
		case '\\':
			return append(dst, '\\', '\\')
		default:
			return append(dst, byte(c))
		}
	}
	if c > 0xff {
		return appendHex(append(dst, '\\', 'u'), uint32(c), 4)
	}
	return appendHex(append(dst, '\\', 'x'), uint32(c), 2)
}

// AppendString appends the detailed-escape encoding of every code unit
// of s to dst.
func AppendString(dst []byte, s string) []byte {
	for _, c := range s {
		dst = AppendRune(dst, c)
	}
	return dst
}
