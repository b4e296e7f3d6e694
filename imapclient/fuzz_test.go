package imapclient

import (
	"bytes"
	"testing"
)

func FuzzParser(f *testing.F) {
	f.Add([]byte("1 (UID 42 RFC822.SIZE 100 FLAGS (\\Seen))"))
	f.Add([]byte("3 (UID 7 BODY[HEADER.FIELDS (SUBJECT)] {11}\nhello)world\n)"))
	f.Add([]byte(`12 (ENVELOPE ("Wed, 17 Jul 1996 02:23:25 -0700 (PDT)" "IMAP4rev1 WG mtg summary and minutes" (("Terry Gray" NIL "gray" "cac.washington.edu")) NIL NIL ((NIL NIL "imap" "cac.washington.edu")) NIL NIL NIL "<B27397-0100000@cac.washington.edu>"))`))
	f.Add([]byte(`1 (INTERNALDATE "17-Jul-1996 02:44:25 -0700" BODYSTRUCTURE ("TEXT" "PLAIN" ("CHARSET" "US-ASCII") NIL NIL "7BIT" 3028 92))`))
	f.Add([]byte("1 2 3 (MODSEQ 12345)"))
	f.Add([]byte(`LIST (\HasNoChildren) "/" "Entw&APw-rfe"`))
	f.Add([]byte("~{2}\n\x00\x01"))
	f.Add([]byte(`"unterminated \"`))

	f.Fuzz(func(t *testing.T, data []byte) {
		in := bytes.Split(data, []byte("\n"))
		ParseResponse(in)
		ParseResponseRaw(in)
		ParseFetch(in, DefaultFetchOpts)
		ParseFetch(in, FetchOpts{})
		ParseMessageList(in)

		l := NewLexer(in)
		for {
			if _, err := l.Next(); err != nil {
				break
			}
		}
	})
}
