package imapclient

import (
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mjl-/imapresp/imapdate"
)

// FetchOpts influences how ParseFetch decodes a FETCH response.
type FetchOpts struct {
	// Convert INTERNALDATE and envelope dates to the local time zone. Otherwise the
	// zone offset of the response is kept.
	NormaliseTimes bool

	// Key messages by their UID field, if present, instead of by sequence number.
	// The UID is then not stored as field.
	UIDIsKey bool

	// If > 0, literals larger than MaxLiteral are refused. Otherwise
	// DefaultMaxLiteral applies.
	MaxLiteral int64
}

// DefaultFetchOpts normalises times and keys by UID.
var DefaultFetchOpts = FetchOpts{NormaliseTimes: true, UIDIsKey: true}

// FetchRecord holds the fields of fetched messages, keyed by UID or sequence
// number.
type FetchRecord map[int64]FetchFields

// FetchFields holds the fields of a single message, keyed by upper case
// attribute name, e.g. "FLAGS", "RFC822.SIZE", "BODY[HEADER]". Field "SEQ" holds
// the message sequence number.
//
// Values are int64, []byte (atoms, quoted strings, literals), []Value (lists,
// with atoms as []byte), nil (NIL), time.Time (INTERNALDATE), Envelope
// (ENVELOPE) or BodyData (BODY and BODYSTRUCTURE).
type FetchFields map[string]any

// BodyData is a parsed body structure from a BODY or BODYSTRUCTURE field.
type BodyData []Value

// IsMultipart returns whether the body structure is for a multipart message,
// i.e. starts with the structures of the parts.
func (b BodyData) IsMultipart() bool {
	if len(b) == 0 {
		return false
	}
	_, ok := b[0].([]Value)
	return ok
}

// Bytes returns the value of a string field, nil if absent, NIL or not a string.
func (f FetchFields) Bytes(name string) []byte {
	b, _ := f[name].([]byte)
	return b
}

// Int returns the value of a number field, e.g. RFC822.SIZE.
func (f FetchFields) Int(name string) (int64, bool) {
	v, ok := f[name].(int64)
	return v, ok
}

// Time returns the value of a date field, i.e. INTERNALDATE.
func (f FetchFields) Time(name string) (time.Time, bool) {
	t, ok := f[name].(time.Time)
	return t, ok
}

// Envelope returns the ENVELOPE field.
func (f FetchFields) Envelope() (Envelope, bool) {
	env, ok := f["ENVELOPE"].(Envelope)
	return env, ok
}

// Flags returns the FLAGS field, nil if absent.
func (f FetchFields) Flags() []string {
	l, _ := f["FLAGS"].([]Value)
	if l == nil {
		return nil
	}
	flags := make([]string, 0, len(l))
	for _, v := range l {
		if b, ok := v.([]byte); ok {
			flags = append(flags, string(b))
		}
	}
	return flags
}

// Names returns the sorted field names.
func (f FetchFields) Names() []string {
	names := maps.Keys(f)
	slices.Sort(names)
	return names
}

// Keys returns the sorted message keys.
func (r FetchRecord) Keys() []int64 {
	keys := maps.Keys(r)
	slices.Sort(keys)
	return keys
}

// ParseFetch parses the data of one or more untagged FETCH responses, without
// the leading "*" and "FETCH", e.g. `12 (UID 1001 FLAGS (\Seen))`.
//
// Fields of multiple responses for the same message are merged, with later
// values replacing earlier ones. On error, no partial record is returned.
func ParseFetch(lines [][]byte, opts FetchOpts) (record FetchRecord, rerr error) {
	defer func() {
		decoded("fetch", len(lines), rerr)
	}()
	defer recoverError(&rerr)

	l := NewLexer(lines)
	if opts.MaxLiteral > 0 {
		l.MaxLiteral = opts.MaxLiteral
	}

	rec := FetchRecord{}
	for {
		tok, ok := l.xnext()
		if !ok {
			break
		}
		if tok.Kind != TokenNumber {
			xerrorf("expected message number, got %s", tok)
		}
		key, fields := l.xfetch(tok.Num, opts)
		if prev, ok := rec[key]; ok {
			maps.Copy(prev, fields)
		} else {
			rec[key] = fields
		}
	}
	return rec, nil
}

// xfetch reads the attribute list of a FETCH response, msg-att in RFC 9051.
func (l *Lexer) xfetch(seq int64, opts FetchOpts) (int64, FetchFields) {
	if tok, ok := l.xnext(); !ok || tok.Kind != TokenOpen {
		xerrorf(`expected "(" after message number %d`, seq)
	}

	key := seq
	fields := FetchFields{"SEQ": seq}
	for {
		tok, ok := l.xnext()
		if !ok {
			xerrorf("unexpected end of fetch response for message %d", seq)
		}
		if tok.Kind == TokenClose {
			return key, fields
		}
		if tok.Kind != TokenAtom {
			xerrorf("expected fetch attribute name, got %s", tok)
		}
		name := strings.ToUpper(string(tok.Buf))

		vtok, ok := l.xnext()
		if !ok {
			xerrorf("missing value for fetch attribute %s", name)
		}
		v := l.xfetchValue(vtok)

		switch name {
		case "UID":
			uid, ok := v.(int64)
			if !ok {
				xerrorf("uid: expected number, got %s", describe(v))
			}
			if opts.UIDIsKey {
				key = uid
			} else {
				fields[name] = uid
			}
		case "INTERNALDATE":
			b, ok := v.([]byte)
			if !ok {
				xerrorf("internaldate: expected string, got %s", describe(v))
			}
			t, err := imapdate.ParseDateTime(b, opts.NormaliseTimes)
			xcheckf(err, "parsing internaldate")
			fields[name] = t
		case "ENVELOPE":
			fields[name] = xenvelope(v, opts.NormaliseTimes)
		case "BODY", "BODYSTRUCTURE":
			if list, ok := v.([]Value); ok {
				fields[name] = BodyData(list)
			} else {
				fields[name] = v
			}
		default:
			fields[name] = v
		}
	}
}

// xfetchValue returns the value starting with tok, reading a list if tok opens
// one. Atoms are returned as []byte.
func (l *Lexer) xfetchValue(tok Token) Value {
	switch tok.Kind {
	case TokenOpen:
		list := []Value{}
		for {
			tok, ok := l.xnext()
			if !ok {
				xerrorf("unexpected end of list in fetch response")
			}
			if tok.Kind == TokenClose {
				return list
			}
			list = append(list, l.xfetchValue(tok))
		}
	case TokenNumber:
		return tok.Num
	case TokenAtom, TokenLiteral:
		return tok.Buf
	case TokenNil:
		return nil
	}
	xerrorf("unexpected %s in fetch response", tok)
	panic("not reached")
}
