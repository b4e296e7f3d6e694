package imapclient

import (
	"fmt"
	"mime"
	"strconv"
	"time"

	"golang.org/x/net/idna"

	"github.com/mjl-/imapresp/imapdate"
	"github.com/mjl-/imapresp/respio"
)

// Envelope holds the basic email message fields, from an ENVELOPE fetch
// attribute. Nil fields were NIL in the response, an empty non-nil field was
// an empty string.
type Envelope struct {
	// Zero if absent or unparseable.
	Date time.Time

	Subject                            []byte
	From, Sender, ReplyTo, To, Cc, Bcc []Address
	InReplyTo                          []byte
	MessageID                          []byte
}

// Address is an address field in an email message, e.g. To.
//
// In a list of addresses, an address without Host starts a group, with the group
// name in Mailbox. An address without Host and Mailbox ends the group.
type Address struct {
	Name    []byte
	Route   []byte // Obsolete source route, "at-domain-list".
	Mailbox []byte // Localpart.
	Host    []byte // Domain, in ASCII (IDNA) form.
}

var wordDecoder = mime.WordDecoder{CharsetReader: respio.CharsetReader}

// SubjectText returns the subject with RFC 2047 encoded-words decoded. If
// decoding fails, the subject is returned as is.
func (e Envelope) SubjectText() string {
	s, err := wordDecoder.DecodeHeader(string(e.Subject))
	if err != nil {
		pkglog.Debugx("decoding subject", err)
		return string(e.Subject)
	}
	return s
}

// HostUnicode returns the host with IDNA A-labels converted to unicode. If the
// host is not valid IDNA, it is returned as is.
func (a Address) HostUnicode() string {
	s, err := idna.Lookup.ToUnicode(string(a.Host))
	if err != nil {
		return string(a.Host)
	}
	return s
}

func (a Address) String() string {
	if a.Host == nil {
		if a.Mailbox == nil {
			return ";"
		}
		return string(a.Mailbox) + ":"
	}
	addr := string(a.Mailbox) + "@" + a.HostUnicode()
	if len(a.Name) == 0 {
		return "<" + addr + ">"
	}
	name, err := wordDecoder.DecodeHeader(string(a.Name))
	if err != nil {
		name = string(a.Name)
	}
	return fmt.Sprintf("%s <%s>", strconv.Quote(name), addr)
}

// ParseEnvelope decodes an envelope from a parsed ENVELOPE value, a list of 10
// elements. If normalise is set, the date is converted to the local time zone.
// An unparseable date results in a zero Date, not in an error.
func ParseEnvelope(v Value, normalise bool) (env Envelope, rerr error) {
	defer recoverError(&rerr)
	return xenvelope(v, normalise), nil
}

// Field order as in RFC 9051 envelope.
func xenvelope(v Value, normalise bool) Envelope {
	l, ok := v.([]Value)
	if !ok || len(l) != 10 {
		xerrorf("envelope: expected list of 10 elements, got %s", describe(v))
	}
	var env Envelope
	if date := xnstring(l[0], "date"); date != nil {
		t, err := imapdate.ParseDateTime(date, normalise)
		if err != nil {
			pkglog.Debugx("parsing envelope date", err)
		} else {
			env.Date = t
		}
	}
	env.Subject = xnstring(l[1], "subject")
	env.From = xaddresses(l[2], "from")
	env.Sender = xaddresses(l[3], "sender")
	env.ReplyTo = xaddresses(l[4], "reply-to")
	env.To = xaddresses(l[5], "to")
	env.Cc = xaddresses(l[6], "cc")
	env.Bcc = xaddresses(l[7], "bcc")
	env.InReplyTo = xnstring(l[8], "in-reply-to")
	env.MessageID = xnstring(l[9], "message-id")
	return env
}

func xaddresses(v Value, what string) []Address {
	if v == nil {
		return nil
	}
	l, ok := v.([]Value)
	if !ok {
		xerrorf("envelope %s: expected list of addresses or NIL, got %s", what, describe(v))
	}
	addrs := make([]Address, len(l))
	for i, e := range l {
		al, ok := e.([]Value)
		if !ok || len(al) != 4 {
			xerrorf("envelope %s: expected address with 4 elements, got %s", what, describe(e))
		}
		addrs[i] = Address{
			xnstring(al[0], what+" name"),
			xnstring(al[1], what+" route"),
			xnstring(al[2], what+" mailbox"),
			xnstring(al[3], what+" host"),
		}
	}
	return addrs
}

func xnstring(v Value, what string) []byte {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return x
	case string:
		return []byte(x)
	case int64:
		return []byte(strconv.FormatInt(x, 10))
	}
	xerrorf("envelope %s: expected string or NIL, got %s", what, describe(v))
	panic("not reached")
}

func describe(v Value) string {
	switch x := v.(type) {
	case nil:
		return "NIL"
	case []Value:
		return fmt.Sprintf("list of %d elements", len(x))
	}
	return fmt.Sprintf("%T", v)
}
