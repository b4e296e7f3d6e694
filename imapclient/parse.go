package imapclient

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Value is a parsed value in a response: int64 for numbers, string for atoms
// and quoted strings (or []byte when parsing raw), []byte for literals, []Value
// for parenthesized lists, and nil for NIL.
type Value = any

// ParseOpts influences how ParseResponseOpts parses a response.
type ParseOpts struct {
	// Return atoms and quoted strings as []byte instead of string.
	Raw bool

	// If > 0, literals larger than MaxLiteral are refused. Otherwise
	// DefaultMaxLiteral applies.
	MaxLiteral int64
}

// ParseResponse parses the lines of a response into a list of values, one for
// each top-level item in the response. Atoms and quoted strings are decoded as
// ISO-8859-1 text. A ")" without opening "(" ends parsing.
func ParseResponse(lines [][]byte) ([]Value, error) {
	return ParseResponseOpts(lines, ParseOpts{})
}

// ParseResponseRaw is like ParseResponse, but returns atoms and quoted strings
// as []byte.
func ParseResponseRaw(lines [][]byte) ([]Value, error) {
	return ParseResponseOpts(lines, ParseOpts{Raw: true})
}

// ParseResponseOpts parses a response like ParseResponse, with options.
func ParseResponseOpts(lines [][]byte, opts ParseOpts) (values []Value, rerr error) {
	defer func() {
		decoded("response", len(lines), rerr)
	}()
	defer recoverError(&rerr)

	p := parser{NewLexer(lines), opts.Raw}
	if opts.MaxLiteral > 0 {
		p.l.MaxLiteral = opts.MaxLiteral
	}
	return p.xlist(), nil
}

type parser struct {
	l   *Lexer
	raw bool
}

// xlist reads values until a ")" or the end of input, recursing for lists.
func (p parser) xlist() []Value {
	l := []Value{}
	for {
		tok, ok := p.l.xnext()
		if !ok {
			return l
		}
		switch tok.Kind {
		case TokenOpen:
			l = append(l, p.xlist())
		case TokenClose:
			return l
		default:
			l = append(l, p.xvalue(tok))
		}
	}
}

func (p parser) xvalue(tok Token) Value {
	switch tok.Kind {
	case TokenNumber:
		return tok.Num
	case TokenAtom:
		if p.raw {
			return tok.Buf
		}
		return latin1(tok.Buf)
	case TokenLiteral:
		return tok.Buf
	case TokenNil:
		return nil
	}
	xerrorf("unexpected token %s", tok)
	panic("not reached")
}

// latin1 decodes b as ISO-8859-1, each byte becoming one character.
func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	xcheckf(err, "decoding text")
	return string(s)
}

// latin1Bytes is the inverse of latin1. Characters outside ISO-8859-1 are
// replaced.
func latin1Bytes(s string) []byte {
	b, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}
