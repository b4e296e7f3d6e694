package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mjl-/imapresp/imapdate"
)

func cmdDateParse(c *cmd) {
	c.params = "[-normalise] date ..."
	c.help = `Parse a date as found in IMAP responses.

Accepted are INTERNALDATE values, e.g. "17-Jul-1996 02:44:25 -0700", and
message header dates like "Wed, 17 Jul 1996 02:44:25 -0700", including common
variations. Multiple parameters are joined with a space. The date is printed in
RFC 3339 format and as INTERNALDATE.
`
	var normalise bool
	c.flag.BoolVar(&normalise, "normalise", false, "convert to the local time zone")
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}

	t, err := imapdate.ParseDateTime([]byte(strings.Join(args, " ")), normalise)
	xcheckf(err, "parsing date")
	fmt.Println(t.Format(time.RFC3339))
	fmt.Println(imapdate.InternalDate(t))
}

// xparseTime parses "now", an RFC 3339 timestamp or, if dateOK, a yyyy-mm-dd date.
func xparseTime(s string, dateOK bool) time.Time {
	if s == "now" {
		return time.Now()
	}
	if dateOK {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			return t
		}
	}
	t, err := time.Parse(time.RFC3339, s)
	xcheckf(err, "parsing time")
	return t
}

func cmdDateInternaldate(c *cmd) {
	c.params = "now | rfc3339-time"
	c.help = `Format a time as INTERNALDATE, e.g. for an APPEND command.`
	args := c.Parse()
	if len(args) != 1 {
		c.Usage()
	}

	fmt.Println(imapdate.InternalDate(xparseTime(args[0], false)))
}

func cmdDateSearch(c *cmd) {
	c.params = "now | rfc3339-time | yyyy-mm-dd"
	c.help = `Format a date for use in SEARCH criteria like SINCE and BEFORE.`
	args := c.Parse()
	if len(args) != 1 {
		c.Usage()
	}

	fmt.Println(imapdate.SearchDate(xparseTime(args[0], true)))
}
