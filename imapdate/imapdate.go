// Package imapdate parses dates sent by IMAP servers and formats dates for
// use in IMAP commands.
package imapdate

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid date")

// Layouts for INTERNALDATE. Servers pad the day with a space, we write a zero,
// RFC 9051 date-time.
const (
	internalDateParse  = "_2-Jan-2006 15:04:05 -0700"
	internalDateFormat = "02-Jan-2006 15:04:05 -0700"
	searchDateFormat   = "02-Jan-2006"
)

// Dates without zone are interpreted in the local time zone.
var zonelessLayouts = []string{
	"Mon, _2 Jan 2006 15:04:05",
	"Mon, _2 Jan 2006 15:04",
	"_2 Jan 2006 15:04:05",
	"_2 Jan 2006 15:04",
	"_2-Jan-2006 15:04:05",
	"Mon, _2 Jan 06 15:04:05",
	"_2 Jan 06 15:04:05",
}

// Some mail software writes times with dots as separator, e.g. "12.30.45".
var dottedTime = regexp.MustCompile(`^\w+, ?\d{1,2} \w+ \d\d(\d\d)? \d\d?\.\d\d?\.\d\d?.*`)

// Obsolete zone names, RFC 5322 section 4.3, with their offset in hours. Parsing
// keeps unknown zone abbreviations with offset 0. AST and ADT are not in the
// RFC but common in old messages.
var obsZones = map[string]int{
	"AST": -4, "ADT": -3,
	"EST": -5, "EDT": -4,
	"CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6,
	"PST": -8, "PDT": -7,
}

// Military single-letter zones (except J) have unreliable meaning and are
// treated as -0000.
var militaryZone = regexp.MustCompile(` [A-IK-Za-ik-z]$`)

// obsZone gives t the offset of its obsolete zone name, if it has one.
func obsZone(t time.Time) time.Time {
	name, offset := t.Zone()
	hours, ok := obsZones[name]
	if !ok || offset != 0 {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.FixedZone(name, hours*3600))
}

// ParseDateTime parses a date as found in message headers (RFC 5322, including
// obsolete syntax) or in an INTERNALDATE.
//
// If normalise is true, the returned time is in the local time zone. Otherwise,
// the time has a fixed zone with the offset from s. A date without zone is
// interpreted in, and returned in, the local time zone.
func ParseDateTime(s []byte, normalise bool) (time.Time, error) {
	t, err := parse(strings.TrimSpace(string(s)))
	if err != nil {
		return time.Time{}, err
	}
	if normalise {
		return t.In(time.Local), nil
	}
	return t, nil
}

func parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalid)
	}

	// Parsing may return the local location when the offset matches the local
	// offset. Return a fixed zone so the offset is explicit.
	fixed := func(t time.Time) time.Time {
		name, offset := t.Zone()
		if t.Location() == time.Local {
			name = ""
		}
		return t.In(time.FixedZone(name, offset))
	}

	if t, err := time.Parse(internalDateParse, s); err == nil {
		return fixed(t), nil
	}
	hs := s
	if dottedTime.MatchString(hs) {
		hs = strings.ReplaceAll(hs, ".", ":")
	}
	if militaryZone.MatchString(hs) {
		hs = hs[:len(hs)-1] + "-0000"
	}
	if t, err := mail.ParseDate(hs); err == nil {
		return fixed(obsZone(t)), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, hs, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// InternalDate formats t as used for INTERNALDATE, e.g. in an APPEND
// command: "DD-Mon-YYYY HH:MM:SS +hhmm". Times in the local time zone get the
// offset of the local zone at that time.
func InternalDate(t time.Time) string {
	return t.Format(internalDateFormat)
}

// SearchDate formats the date of t for use in search criteria such as SINCE
// and BEFORE: "DD-Mon-YYYY". The time of day and zone are dropped.
func SearchDate(t time.Time) string {
	return t.Format(searchDateFormat)
}

// Date is a calendar date without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in its location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// SearchDate formats d for use in search criteria.
func (d Date) SearchDate() string {
	return SearchDate(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
