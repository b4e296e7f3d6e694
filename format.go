package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mjl-/imapresp/imapclient"
	"github.com/mjl-/imapresp/respio"
)

// formatter prints parsed values in a syntax similar to IMAP: strings quoted,
// lists parenthesized, NIL for absent values.
type formatter struct {
	// If set, []byte values are decoded from this charset before printing.
	charset string
}

func (f formatter) value(v any) string {
	switch x := v.(type) {
	case nil:
		return "NIL"
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return strconv.Quote(x)
	case []byte:
		return f.bytes(x)
	case []imapclient.Value:
		return "(" + f.list(x) + ")"
	case imapclient.BodyData:
		kind := "single"
		if x.IsMultipart() {
			kind = "multipart"
		}
		return kind + " (" + f.list(x) + ")"
	case time.Time:
		return x.Format(time.RFC3339)
	case imapclient.Envelope:
		return f.envelope(x)
	}
	return fmt.Sprintf("%v", v)
}

func (f formatter) list(l []imapclient.Value) string {
	s := make([]string, len(l))
	for i, v := range l {
		s[i] = f.value(v)
	}
	return strings.Join(s, " ")
}

func (f formatter) bytes(b []byte) string {
	if f.charset == "" {
		return strconv.Quote(string(b))
	}
	buf, err := io.ReadAll(respio.DecodeReader(f.charset, bytes.NewReader(b)))
	if err != nil {
		return strconv.Quote(string(b))
	}
	return strconv.Quote(string(buf))
}

func (f formatter) nstring(b []byte) string {
	if b == nil {
		return "NIL"
	}
	return f.bytes(b)
}

func (f formatter) envelope(env imapclient.Envelope) string {
	var b strings.Builder
	date := "NIL"
	if !env.Date.IsZero() {
		date = env.Date.Format(time.RFC3339)
	}
	fmt.Fprintf(&b, "(date %s subject %s", date, strconv.Quote(env.SubjectText()))
	addrs := func(name string, l []imapclient.Address) {
		if l == nil {
			return
		}
		s := make([]string, len(l))
		for i, a := range l {
			s[i] = strconv.Quote(a.String())
		}
		fmt.Fprintf(&b, " %s (%s)", name, strings.Join(s, " "))
	}
	addrs("from", env.From)
	addrs("sender", env.Sender)
	addrs("reply-to", env.ReplyTo)
	addrs("to", env.To)
	addrs("cc", env.Cc)
	addrs("bcc", env.Bcc)
	fmt.Fprintf(&b, " in-reply-to %s message-id %s)", f.nstring(env.InReplyTo), f.nstring(env.MessageID))
	return b.String()
}
