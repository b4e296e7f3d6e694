package imapclient

import (
	"bytes"
	"io"
	"regexp"
	"strconv"

	"github.com/mjl-/imapresp/metrics"
)

// TokenKind is the type of a Token.
type TokenKind int

const (
	TokenOpen    TokenKind = iota + 1 // "("
	TokenClose                        // ")"
	TokenNumber                       // Atom consisting of only digits, value in Num.
	TokenAtom                         // Atom, or contents of a quoted string, in Buf.
	TokenLiteral                      // Literal data, in Buf.
	TokenNil                          // Unquoted NIL.
)

var tokenKindStrings = map[TokenKind]string{
	TokenOpen:    "open",
	TokenClose:   "close",
	TokenNumber:  "number",
	TokenAtom:    "atom",
	TokenLiteral: "literal",
	TokenNil:     "nil",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindStrings[k]; ok {
		return s
	}
	return "tokenkind" + strconv.Itoa(int(k))
}

// Token is a lexical element of a response. Buf can point into the lines passed
// to NewLexer.
type Token struct {
	Kind TokenKind
	Num  int64
	Buf  []byte
}

func (t Token) String() string {
	switch t.Kind {
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	case TokenNumber:
		return strconv.FormatInt(t.Num, 10)
	case TokenAtom:
		return strconv.Quote(string(t.Buf))
	case TokenLiteral:
		return "{" + strconv.Itoa(len(t.Buf)) + "}"
	case TokenNil:
		return "NIL"
	}
	return t.Kind.String()
}

// DefaultMaxLiteral is the maximum literal size for a new Lexer.
const DefaultMaxLiteral = 1 << 30

// Literals, RFC 9051, and literal8, RFC 3516.
var literalDecl = regexp.MustCompile(`^~?\{([0-9]+)\+?\}\s*$`)

// Lexer reads tokens from response lines.
//
// Literal data following a literal declaration at the end of a line is read
// from the next lines. The line boundaries are not significant within the
// literal data. Bytes on the last line after the literal data are lexed as
// usual.
type Lexer struct {
	// Literals larger than MaxLiteral cause a protocol error.
	MaxLiteral int64

	lines [][]byte
	next  int    // Index in lines of next line to read.
	buf   []byte // Remaining data of the current line.
}

// NewLexer returns a lexer for lines. Lines should not include their line
// terminator.
func NewLexer(lines [][]byte) *Lexer {
	return &Lexer{MaxLiteral: DefaultMaxLiteral, lines: lines}
}

// Next returns the next token. At the end of the input, io.EOF is returned.
// Other errors are of type Error.
func (l *Lexer) Next() (tok Token, rerr error) {
	defer recoverError(&rerr)

	tok, ok := l.xnext()
	if !ok {
		return Token{}, io.EOF
	}
	return tok, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// xnext returns the next token, and false at the end of input.
func (l *Lexer) xnext() (Token, bool) {
	for {
		l.buf = bytes.TrimLeft(l.buf, " \t\r\n")
		if len(l.buf) > 0 {
			break
		}
		if l.next >= len(l.lines) {
			return Token{}, false
		}
		l.buf = l.lines[l.next]
		l.next++
	}

	switch l.buf[0] {
	case '(':
		l.buf = l.buf[1:]
		return Token{Kind: TokenOpen}, true
	case ')':
		l.buf = l.buf[1:]
		return Token{Kind: TokenClose}, true
	case '"':
		return l.xquoted(), true
	case '{', '~':
		if m := literalDecl.FindSubmatch(l.buf); m != nil {
			size, err := strconv.ParseInt(string(m[1]), 10, 64)
			xcheckf(err, "parsing literal size")
			return l.xliteral(size), true
		}
	}
	return l.xatom(), true
}

// Quoted string, RFC 9051.
func (l *Lexer) xquoted() Token {
	s := []byte{}
	for i := 1; i < len(l.buf); i++ {
		c := l.buf[i]
		switch c {
		case '"':
			l.buf = l.buf[i+1:]
			return Token{Kind: TokenAtom, Buf: s}
		case '\\':
			// Only \\ and \" are valid, but servers escape other characters too. We keep
			// the escaped character.
			i++
			if i >= len(l.buf) {
				xerrorf("unterminated quoted string")
			}
			c = l.buf[i]
		}
		s = append(s, c)
	}
	xerrorf("unterminated quoted string")
	panic("not reached")
}

func (l *Lexer) xliteral(size int64) Token {
	if size > l.MaxLiteral {
		xerrorf("literal of %d bytes larger than maximum %d", size, l.MaxLiteral)
	}
	n := int(size)
	l.buf = nil
	buf := []byte{}
	for len(buf) < n {
		if l.next >= len(l.lines) {
			xerrorf("end of input in literal, have %d of %d bytes", len(buf), n)
		}
		line := l.lines[l.next]
		l.next++
		if need := n - len(buf); len(line) > need {
			buf = append(buf, line[:need]...)
			l.buf = line[need:]
		} else {
			buf = append(buf, line...)
		}
	}
	metrics.LiteralBytesAdd(n)
	return Token{Kind: TokenLiteral, Buf: buf}
}

// xatom reads an atom. A "[" starts a section that extends to the matching "]",
// including spaces and parentheses, e.g. BODY[HEADER.FIELDS (FROM TO)]. The "]"
// must be on the same line.
func (l *Lexer) xatom() Token {
	var depth, i int
	for ; i < len(l.buf); i++ {
		c := l.buf[i]
		if depth == 0 && (isSpace(c) || c == '(' || c == ')') {
			break
		}
		if c == '[' {
			depth++
		} else if c == ']' && depth > 0 {
			depth--
		}
	}
	if depth > 0 {
		xerrorf("missing ] in atom %q", l.buf)
	}
	atom := l.buf[:i]
	l.buf = l.buf[i:]

	if isDigits(atom) {
		v, err := strconv.ParseInt(string(atom), 10, 64)
		xcheckf(err, "parsing number")
		return Token{Kind: TokenNumber, Num: v}
	}
	if bytes.EqualFold(atom, []byte("NIL")) {
		return Token{Kind: TokenNil}
	}
	return Token{Kind: TokenAtom, Buf: atom}
}

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(b) > 0
}
