// Package utf7 implements the modified UTF-7 encoding of IMAP mailbox names,
// RFC 3501 section 5.1.3.
//
// Printable ASCII is written as is, except "&", which is written as "&-". Other
// characters are written as UTF-16BE, encoded with a base64 variant that uses ","
// instead of "/" and no padding, enclosed in "&" and "-".
//
// Decode is lenient: servers and clients in the wild produce names with
// malformed shifted runs, which are passed through as is instead of failing
// a full mailbox listing. Use StrictDecode for validation.
package utf7

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/mjl-/imapresp/metrics"
	"github.com/mjl-/imapresp/mlog"
)

var pkglog = mlog.New("utf7", nil)

const utf7chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,"

var utf7encoding = base64.NewEncoding(utf7chars).WithPadding(base64.NoPadding)

// For StrictDecode, rejects non-zero padding bits.
var utf7strict = utf7encoding.Strict()

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

var (
	ErrSuperfluousShift = errors.New("utf7: superfluous unshift+shift")
	ErrBase64           = errors.New("utf7: bad base64")
	ErrOddSized         = errors.New("utf7: odd-sized data")
	ErrUnneededShift    = errors.New("utf7: unneeded shift")
	ErrUnfinishedShift  = errors.New("utf7: unfinished shift")
	ErrBadSurrogate     = errors.New("utf7: bad surrogate pair")
)

func plain(c uint16) bool {
	return c >= 0x20 && c <= 0x7e
}

// Encode returns mailbox name s in modified UTF-7. Invalid UTF-8 in s is
// encoded as the Unicode replacement character.
func Encode(s string) []byte {
	units, err := utf16be.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// The UTF-16 encoder replaces invalid UTF-8, it does not fail.
		panic(fmt.Sprintf("utf-16 encoding: %v", err))
	}

	var r bytes.Buffer
	var shifted []byte
	flush := func() {
		if len(shifted) == 0 {
			return
		}
		r.WriteByte('&')
		r.WriteString(utf7encoding.EncodeToString(shifted))
		r.WriteByte('-')
		shifted = shifted[:0]
	}
	for i := 0; i+1 < len(units); i += 2 {
		c := uint16(units[i])<<8 | uint16(units[i+1])
		if !plain(c) {
			shifted = append(shifted, units[i], units[i+1])
			continue
		}
		flush()
		if c == '&' {
			r.WriteString("&-")
		} else {
			r.WriteByte(byte(c))
		}
	}
	flush()
	return r.Bytes()
}

// EncodeString is like Encode, but returns a string.
func EncodeString(s string) string {
	return string(Encode(s))
}

// Decode returns the mailbox name encoded as modified UTF-7 in b.
//
// Bytes outside a shifted run are copied as single characters. A shifted run
// ends at the next "-", or at the end of b. If a run cannot be decoded, it is
// copied as "&", the run and "-".
func Decode(b []byte) string {
	var r strings.Builder
	for i := 0; i < len(b); {
		if b[i] != '&' {
			r.WriteRune(rune(b[i]))
			i++
			continue
		}
		start := i + 1
		end := bytes.IndexByte(b[start:], '-')
		if end < 0 {
			end = len(b)
		} else {
			end += start
		}
		run := b[start:end]
		if len(run) == 0 {
			r.WriteByte('&')
		} else if s, err := decodeRun(utf7encoding, run); err != nil {
			pkglog.Debugx("passing through malformed shifted run", err, slog.String("run", string(run)))
			metrics.UTF7FallbackInc()
			r.WriteByte('&')
			r.Write(run)
			r.WriteByte('-')
		} else {
			r.WriteString(s)
		}
		i = end + 1
	}
	return r.String()
}

// DecodeString is like Decode, but takes a string.
func DecodeString(s string) string {
	return Decode([]byte(s))
}

// decodeRun decodes the base64 data between "&" and "-".
func decodeRun(enc *base64.Encoding, run []byte) (string, error) {
	buf := make([]byte, enc.DecodedLen(len(run)))
	n, err := enc.Decode(buf, run)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrBase64, run, err)
	}
	buf = buf[:n]
	if len(buf)%2 != 0 {
		return "", ErrOddSized
	}
	if err := checkSurrogates(buf); err != nil {
		return "", err
	}
	s, err := utf16be.NewDecoder().Bytes(buf)
	if err != nil {
		return "", fmt.Errorf("utf-16 decoding: %w", err)
	}
	return string(s), nil
}

// checkSurrogates verifies every high surrogate is followed by a low surrogate,
// and low surrogates don't appear elsewhere.
func checkSurrogates(buf []byte) error {
	for i := 0; i < len(buf); i += 2 {
		c := uint16(buf[i])<<8 | uint16(buf[i+1])
		switch {
		case c >= 0xdc00 && c <= 0xdfff:
			return ErrBadSurrogate
		case c >= 0xd800 && c <= 0xdbff:
			if i+3 >= len(buf) {
				return ErrBadSurrogate
			}
			c2 := uint16(buf[i+2])<<8 | uint16(buf[i+3])
			if c2 < 0xdc00 || c2 > 0xdfff {
				return ErrBadSurrogate
			}
			i += 2
		}
	}
	return nil
}

// StrictDecode decodes b like Decode, but returns an error for any deviation
// from the canonical encoding: malformed shifted runs, shifted runs for
// characters that don't need shifting, a shift right after an unshift, a
// missing final "-", and non-printable bytes outside shifted runs.
func StrictDecode(b []byte) (string, error) {
	var r strings.Builder
	lastunshift := -2
	for i := 0; i < len(b); {
		c := b[i]
		if c != '&' {
			if !plain(uint16(c)) {
				return "", fmt.Errorf("utf7: non-printable byte 0x%02x outside shifted run", c)
			}
			r.WriteByte(c)
			i++
			continue
		}
		end := bytes.IndexByte(b[i+1:], '-')
		if end < 0 {
			return "", ErrUnfinishedShift
		}
		end += i + 1
		run := b[i+1 : end]
		if len(run) == 0 {
			r.WriteByte('&')
			i = end + 1
			continue
		}
		// Two adjacent shifted runs should have been a single run.
		if lastunshift == i-1 {
			return "", ErrSuperfluousShift
		}
		lastunshift = end
		i = end + 1
		s, err := decodeRun(utf7strict, run)
		if err != nil {
			return "", err
		}
		need := false
		for _, x := range s {
			if x < 0x20 || x > 0x7e || x == '&' {
				need = true
			}
		}
		if !need {
			return "", ErrUnneededShift
		}
		r.WriteString(s)
	}
	return r.String(), nil
}
