package imapclient

import (
	"testing"

	"github.com/mjl-/imapresp/imapdate"
)

func TestParseResponse(t *testing.T) {
	check := func(in [][]byte, exp []Value) {
		t.Helper()
		l, err := ParseResponse(in)
		tcheckf(t, err, "parsing %q", in)
		tcompare(t, l, exp)
	}

	check(lines(`(1 (2 (3 (4 "x"))) "a")`),
		[]Value{[]Value{int64(1), []Value{int64(2), []Value{int64(3), []Value{int64(4), "x"}}}, "a"}})

	check(lines(`LIST (\HasNoChildren) "/" "Entw&APw-rfe"`),
		[]Value{"LIST", []Value{`\HasNoChildren`}, "/", "Entw&APw-rfe"})

	// Multiple top-level items, NIL, empty list.
	check(lines(`a NIL () b`), []Value{"a", nil, []Value{}, "b"})

	// Text is decoded as ISO-8859-1.
	check(lines("caf\xe9 \"\xe9t\xe9\""), []Value{"café", "été"})

	// Literal stays raw, also with syntax characters inside.
	check(lines("X {5}", "(a) b", " Y"), []Value{"X", []byte("(a) b"), "Y"})

	// A ")" without "(" ends parsing, an unclosed list ends at the end of input.
	check(lines("a ) b"), []Value{"a"})
	check(lines("(a b"), []Value{[]Value{"a", "b"}})

	check(nil, []Value{})

	l, err := ParseResponseRaw(lines(`a "b" 1 {1}`, "c"))
	tcheckf(t, err, "parse raw")
	tcompare(t, l, []Value{[]byte("a"), []byte("b"), int64(1), []byte("c")})

	_, err = ParseResponse(lines(`"unterminated`))
	terr(t, err, ErrProtocol)

	// A section must be closed on its line.
	_, err = ParseResponse(lines("a[ (b c) d"))
	terr(t, err, ErrProtocol)

	l, err = ParseResponse(lines(`OK [ALERT] "a\b"`))
	tcheckf(t, err, "parse escape")
	tcompare(t, l, []Value{"OK", "[ALERT]", "ab"})

	_, err = ParseResponseOpts(lines("{5}", "abcde"), ParseOpts{MaxLiteral: 4})
	terr(t, err, ErrProtocol)
}

func TestParseFetch(t *testing.T) {
	in := lines("12 (UID 42 RFC822.SIZE 100)")

	r, err := ParseFetch(in, FetchOpts{UIDIsKey: true})
	tcheckf(t, err, "parse fetch")
	tcompare(t, r, FetchRecord{42: {"SEQ": int64(12), "RFC822.SIZE": int64(100)}})

	r, err = ParseFetch(in, FetchOpts{})
	tcheckf(t, err, "parse fetch")
	tcompare(t, r, FetchRecord{12: {"SEQ": int64(12), "UID": int64(42), "RFC822.SIZE": int64(100)}})

	// Each message is keyed by its own UID.
	r, err = ParseFetch(lines("1 (UID 10)", "2 (FLAGS ())", "3 (uid 30 flags (\\Seen $Junk))"), DefaultFetchOpts)
	tcheckf(t, err, "parse fetch")
	tcompare(t, r, FetchRecord{
		10: {"SEQ": int64(1)},
		2:  {"SEQ": int64(2), "FLAGS": []Value{}},
		30: {"SEQ": int64(3), "FLAGS": []Value{[]byte(`\Seen`), []byte("$Junk")}},
	})
	tcompare(t, r[30].Flags(), []string{`\Seen`, "$Junk"})
	tcompare(t, r[2].Flags(), []string{})
	tcompare(t, r[10].Flags(), []string(nil))
	tcompare(t, r.Keys(), []int64{2, 10, 30})

	// Responses for the same message are merged.
	r, err = ParseFetch(lines("5 (FLAGS (\\Seen) RFC822.SIZE 1)", "5 (RFC822.SIZE 2 MODSEQ (7))"), FetchOpts{})
	tcheckf(t, err, "parse fetch")
	tcompare(t, r, FetchRecord{5: {"SEQ": int64(5), "FLAGS": []Value{[]byte(`\Seen`)}, "RFC822.SIZE": int64(2), "MODSEQ": []Value{int64(7)}}})
	tcompare(t, r[5].Names(), []string{"FLAGS", "MODSEQ", "RFC822.SIZE", "SEQ"})

	// Literals, sections, nested lists, NIL.
	r, err = ParseFetch(lines(`3 (UID 7 BODY[HEADER.FIELDS (SUBJECT)] {11}`, "hello)world", ` X-GM-LABELS ("\\Inbox" foo NIL (1 {2}`, "ab", `)))`), DefaultFetchOpts)
	tcheckf(t, err, "parse fetch")
	tcompare(t, r, FetchRecord{7: {
		"SEQ":                           int64(3),
		"BODY[HEADER.FIELDS (SUBJECT)]": []byte("hello)world"),
		"X-GM-LABELS":                   []Value{[]byte(`\Inbox`), []byte("foo"), nil, []Value{int64(1), []byte("ab")}},
	}})
	tcompare(t, r[7].Bytes("BODY[HEADER.FIELDS (SUBJECT)]"), []byte("hello)world"))
	tcompare(t, r[7].Bytes("MISSING"), []byte(nil))
	size, ok := r[7].Int("SEQ")
	tcompare(t, ok, true)
	tcompare(t, size, int64(3))

	r, err = ParseFetch(nil, DefaultFetchOpts)
	tcheckf(t, err, "parse empty fetch")
	tcompare(t, r, FetchRecord{})
}

func TestParseFetchInternaldate(t *testing.T) {
	r, err := ParseFetch(lines(`1 (INTERNALDATE " 7-Jul-1996 02:44:25 -0700")`), FetchOpts{})
	tcheckf(t, err, "parse fetch")
	tm, ok := r[1].Time("INTERNALDATE")
	tcompare(t, ok, true)
	_, offset := tm.Zone()
	tcompare(t, offset, -7*3600)
	tcompare(t, imapdate.InternalDate(tm), "07-Jul-1996 02:44:25 -0700")

	r, err = ParseFetch(lines(`1 (INTERNALDATE "17-Jul-1996 02:44:25 -0700")`), FetchOpts{NormaliseTimes: true})
	tcheckf(t, err, "parse fetch")
	tm2, _ := r[1].Time("INTERNALDATE")
	if tm2.Location() != tm.Local().Location() {
		t.Fatalf("normalised time not in local zone: %v", tm2.Location())
	}
	tcompare(t, tm2.UTC().Format("2006-01-02 15:04:05"), "1996-07-17 09:44:25")

	_, err = ParseFetch(lines(`1 (INTERNALDATE "garbage")`), FetchOpts{})
	terr(t, err, ErrProtocol)
	terr(t, err, imapdate.ErrInvalid)
}

func TestParseFetchBody(t *testing.T) {
	r, err := ParseFetch(lines(`1 (BODYSTRUCTURE ("TEXT" "PLAIN" ("CHARSET" "US-ASCII") NIL NIL "7BIT" 3028 92) BODY (("TEXT" "PLAIN" NIL NIL NIL "7BIT" 10 1)("TEXT" "HTML" NIL NIL NIL "7BIT" 20 1) "ALTERNATIVE") BODY[] NIL)`), FetchOpts{})
	tcheckf(t, err, "parse fetch")
	bs, ok := r[1]["BODYSTRUCTURE"].(BodyData)
	tcompare(t, ok, true)
	tcompare(t, bs.IsMultipart(), false)
	tcompare(t, bs[0], []byte("TEXT"))
	tcompare(t, bs[2], []Value{[]byte("CHARSET"), []byte("US-ASCII")})
	b, ok := r[1]["BODY"].(BodyData)
	tcompare(t, ok, true)
	tcompare(t, b.IsMultipart(), true)
	tcompare(t, b[2], []byte("ALTERNATIVE"))
	v, ok := r[1]["BODY[]"]
	tcompare(t, ok, true)
	tcompare(t, v, nil)
	tcompare(t, BodyData{}.IsMultipart(), false)
}

func TestParseFetchErrors(t *testing.T) {
	check := func(in [][]byte) {
		t.Helper()
		r, err := ParseFetch(in, DefaultFetchOpts)
		terr(t, err, ErrProtocol)
		if r != nil {
			t.Fatalf("got partial record %v on error", r)
		}
	}

	check(lines("abc (UID 1)"))
	check(lines("1 UID 1)"))
	check(lines("1"))
	check(lines("1 (UID 1"))
	check(lines("1 (UID)"))
	check(lines("1 (UID abc)"))
	check(lines("1 (UID 1) (FLAGS ())"))
	check(lines("1 (FLAGS (\\Seen)"))
	check(lines("1 ((FLAGS) 1)"))
	check(lines("1 (BODY[] {10}", "short)"))
	check(lines("1 (ENVELOPE (NIL NIL))"))
	check(lines("1 (UID 1)", "2 (UID 2"))
}

func TestParseMessageList(t *testing.T) {
	check := func(in [][]byte, exp []int64, expModSeq int64) {
		t.Helper()
		r, err := ParseMessageList(in)
		tcheckf(t, err, "parse message list %q", in)
		tcompare(t, r.IDs, exp)
		if expModSeq == 0 && r.ModSeq != nil {
			t.Fatalf("got modseq %d, expected none", *r.ModSeq)
		} else if expModSeq != 0 && (r.ModSeq == nil || *r.ModSeq != expModSeq) {
			t.Fatalf("got modseq %v, expected %d", r.ModSeq, expModSeq)
		}
	}

	check(lines("1 2 3"), []int64{1, 2, 3}, 0)
	check(lines("1 2 3 (MODSEQ 12345)"), []int64{1, 2, 3}, 12345)
	check(lines("1", "2", "3", "(MODSEQ", "12345)"), []int64{1, 2, 3}, 12345)
	check(lines("7 (modseq 5)"), []int64{7}, 5)
	check(lines("3 3 1  2"), []int64{3, 3, 1, 2}, 0)
	check(lines(""), []int64{}, 0)
	check(lines(" ", ""), []int64{}, 0)
	check(nil, []int64{}, 0)
	check(lines("1 MODSEQ"), []int64{1}, 0)

	// Data after the IDs is ignored.
	check(lines("1 2 foo 3"), []int64{1, 2}, 0)
	check(lines(`1 2 "unterminated`), []int64{1, 2}, 0)
	check(lines("12ab"), []int64{12}, 0)

	for _, in := range [][][]byte{
		lines("foo"),
		lines("(MODSEQ 1) 1"),
		lines("1 (MODSEQ abc)"),
		lines("1 (MODSEQ (2))"),
		lines("99999999999999999999"),
	} {
		_, err := ParseMessageList(in)
		terr(t, err, ErrProtocol)
	}
}

func TestDecodeMailbox(t *testing.T) {
	check := func(v Value, utf8 bool, exp string) {
		t.Helper()
		s, err := DecodeMailbox(v, utf8)
		tcheckf(t, err, "decode mailbox")
		tcompare(t, s, exp)
	}

	check([]byte("Entw&APw-rfe"), false, "Entwürfe")
	check("Entw&APw-rfe", false, "Entwürfe")
	check([]byte("Entw&APw-rfe"), true, "Entw&APw-rfe")
	check([]byte("Entwürfe"), true, "Entwürfe")
	check([]byte("bad &!!!- name"), false, "bad &!!!- name")
	check(int64(2024), false, "2024")

	// Generic parser result, text decoded as ISO-8859-1.
	l, err := ParseResponse(lines("\"Entw\xc3\xbcrfe\""))
	tcheckf(t, err, "parse")
	check(l[0], true, "Entwürfe")

	_, err = DecodeMailbox(nil, false)
	terr(t, err, ErrProtocol)

	tcompare(t, EncodeMailbox("Entwürfe & Vorlagen", false), []byte("Entw&APw-rfe &- Vorlagen"))
	tcompare(t, EncodeMailbox("Entwürfe", true), []byte("Entwürfe"))
}
