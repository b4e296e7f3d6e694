package respio

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// CharsetReader returns a reader that decodes r from charset to UTF-8. For
// empty, us-ascii and utf-8 charsets, r is returned as is. An error is returned
// for unknown charsets. CharsetReader can be used for mime.WordDecoder.
func CharsetReader(charset string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "us-ascii", "utf-8":
		return r, nil
	}
	enc, _ := ianaindex.MIME.Encoding(charset)
	if enc == nil {
		enc, _ = ianaindex.IANA.Encoding(charset)
	}
	// todo: ianaindex doesn't know all encodings, e.g. gb2312. should we transform them, with which code?
	if enc == nil {
		return r, fmt.Errorf("unknown charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

// DecodeReader is like CharsetReader, but returns the original reader for
// unknown charsets.
func DecodeReader(charset string, r io.Reader) io.Reader {
	dr, err := CharsetReader(charset, r)
	if err != nil {
		return r
	}
	return dr
}
