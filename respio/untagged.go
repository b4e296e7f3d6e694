package respio

import (
	"bytes"
)

// StripUntagged removes the untagged "* " prefix from the first line of a
// response, and if keyword is not empty, the keyword. For responses that start
// with a number, like FETCH, the number is kept:
//
//	* SEARCH 1 2 3          -> 1 2 3
//	* 12 FETCH (UID 1001)   -> 12 (UID 1001)
//
// The returned lines share data with lines, only the first line is replaced.
// The boolean is false if the response is not an untagged response with the
// keyword, lines are then returned unchanged.
func StripUntagged(lines [][]byte, keyword string) ([][]byte, bool) {
	if len(lines) == 0 || !bytes.HasPrefix(lines[0], []byte("* ")) {
		return lines, false
	}
	rest := lines[0][2:]
	if keyword != "" {
		var num []byte
		if i := bytes.IndexByte(rest, ' '); i > 0 && isNumber(rest[:i]) {
			num = rest[:i+1]
			rest = rest[i+1:]
		}
		kw := []byte(keyword)
		if len(rest) < len(kw) || !bytes.EqualFold(rest[:len(kw)], kw) || len(rest) > len(kw) && rest[len(kw)] != ' ' {
			return lines, false
		}
		rest = bytes.TrimPrefix(rest[len(kw):], []byte(" "))
		if num != nil {
			rest = append(append([]byte{}, num...), rest...)
		}
	}
	nlines := append([][]byte{rest}, lines[1:]...)
	return nlines, true
}

func isNumber(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(b) > 0
}
