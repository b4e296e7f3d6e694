package imapclient

import (
	"github.com/mjl-/imapresp/utf7"
)

// DecodeMailbox returns the mailbox name from a LIST or LSUB response as
// unicode string. Names are in modified UTF-7, unless UTF8=ACCEPT is enabled.
// Malformed modified UTF-7 is kept as is.
//
// A string value, as returned by ParseResponse, holds the text decoded as
// ISO-8859-1 and is encoded back to bytes first.
func DecodeMailbox(v Value, utf8Enabled bool) (string, error) {
	var b []byte
	switch x := v.(type) {
	case []byte:
		b = x
	case string:
		b = latin1Bytes(x)
	case int64:
		return Token{Kind: TokenNumber, Num: x}.String(), nil
	default:
		return "", Error{errorf("mailbox name: expected string, got %s", describe(v))}
	}
	if utf8Enabled {
		return string(b), nil
	}
	return utf7.Decode(b), nil
}

// EncodeMailbox returns name in modified UTF-7 for use in commands, unless
// utf8Enabled is set.
func EncodeMailbox(name string, utf8Enabled bool) []byte {
	if utf8Enabled {
		return []byte(name)
	}
	return utf7.Encode(name)
}
