package imapdate

import (
	"errors"
	"testing"
	"time"
)

func tcheckf(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %s", msg, err)
	}
}

// withLocal runs fn with the local time zone set to a fixed zone.
func withLocal(t *testing.T, offset int, fn func()) {
	t.Helper()
	orig := time.Local
	time.Local = time.FixedZone("TEST", offset)
	defer func() {
		time.Local = orig
	}()
	fn()
}

func TestParseDateTime(t *testing.T) {
	withLocal(t, -5*3600, func() {
		check := func(s string, exp time.Time, expOffset int) {
			t.Helper()
			tm, err := ParseDateTime([]byte(s), false)
			tcheckf(t, err, "parse")
			if !tm.Equal(exp) {
				t.Fatalf("parsing %q: got %v, expected %v", s, tm, exp)
			}
			if _, offset := tm.Zone(); offset != expOffset {
				t.Fatalf("parsing %q: got offset %d, expected %d", s, offset, expOffset)
			}
			if tm.Location() == time.Local && expOffset != -5*3600 {
				t.Fatalf("parsing %q: got local location, expected explicit zone", s)
			}
		}

		plus1 := time.FixedZone("", 3600)
		exp := time.Date(2023, time.March, 9, 13, 5, 10, 0, plus1)

		check("Thu, 09 Mar 2023 13:05:10 +0100", exp, 3600)
		check("9 Mar 2023 13:05:10 +0100", exp, 3600)
		check("Thu, 9 Mar 2023 13:05:10 +0100 (CET)", exp, 3600)
		check(" 9-Mar-2023 13:05:10 +0100", exp, 3600)
		check("09-Mar-2023 13:05:10 +0100", exp, 3600)
		check("Thu, 09 Mar 2023 13.05.10 +0100", exp, 3600)
		check("Thu, 09 Mar 2023 12:05:10 +0000", exp, 0)
		check("17-Jul-1996 02:44:25 -0700", time.Date(1996, time.July, 17, 9, 44, 25, 0, time.UTC), -7*3600)

		// Obsolete zone names.
		check("Mon, 1 Jan 2024 12:00:00 EST", time.Date(2024, time.January, 1, 17, 0, 0, 0, time.UTC), -5*3600)
		check("Mon, 1 Jul 2024 12:00:00 PDT", time.Date(2024, time.July, 1, 19, 0, 0, 0, time.UTC), -7*3600)
		check("Mon, 1 Jul 2024 12:00:00 CDT (Central)", time.Date(2024, time.July, 1, 17, 0, 0, 0, time.UTC), -5*3600)
		check("Wed, 17 Jul 1996 02:23:25 MST", time.Date(1996, time.July, 17, 9, 23, 25, 0, time.UTC), -7*3600)
		check("Mon, 1 Jan 2024 12:00:00 GMT", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 0)
		check("Mon, 1 Jan 2024 12:00:00 UT", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 0)
		check("Mon, 1 Jan 2024 12:00:00 Z", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 0)
		check("Mon, 1 Jan 2024 12:00:00 A", time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 0)

		tm, err := ParseDateTime([]byte("Mon, 1 Jan 2024 12:00:00 EST"), false)
		tcheckf(t, err, "parse")
		if name, _ := tm.Zone(); name != "EST" {
			t.Fatalf("got zone name %q, expected EST", name)
		}

		// Offset equal to the local offset still results in an explicit zone.
		tm, err = ParseDateTime([]byte("Thu, 09 Mar 2023 07:05:10 -0500"), false)
		tcheckf(t, err, "parse")
		if tm.Location() == time.Local {
			t.Fatalf("got local location, expected fixed zone")
		}

		// Without zone, local time is used.
		tm, err = ParseDateTime([]byte("Thu, 09 Mar 2023 07:05:10"), false)
		tcheckf(t, err, "parse")
		if !tm.Equal(exp) || tm.Location() != time.Local {
			t.Fatalf("got %v, expected %v in local zone", tm, exp)
		}
	})
}

func TestParseDateTimeNormalise(t *testing.T) {
	withLocal(t, 2*3600, func() {
		tm, err := ParseDateTime([]byte("Thu, 09 Mar 2023 13:05:10 +0100"), true)
		tcheckf(t, err, "parse")
		if tm.Location() != time.Local {
			t.Fatalf("got location %v, expected local", tm.Location())
		}
		if tm.Hour() != 14 || tm.Minute() != 5 {
			t.Fatalf("got %v, expected 14:05 local", tm)
		}
		exp := time.Date(2023, time.March, 9, 12, 5, 10, 0, time.UTC)
		if !tm.Equal(exp) {
			t.Fatalf("got %v, expected same instant as %v", tm, exp)
		}
	})
}

func TestParseDateTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "   ", "not a date", "32-Foo-2023 25:00:00 +0100", "Thu, 09 Mar 2023"} {
		_, err := ParseDateTime([]byte(s), true)
		if err == nil || !errors.Is(err, ErrInvalid) {
			t.Fatalf("parsing %q: got err %v, expected ErrInvalid", s, err)
		}
	}
}

func TestInternalDate(t *testing.T) {
	tm := time.Date(2023, time.March, 9, 13, 5, 10, 0, time.FixedZone("", 3600+30*60))
	if s := InternalDate(tm); s != "09-Mar-2023 13:05:10 +0130" {
		t.Fatalf("got %q", s)
	}

	withLocal(t, -8*3600, func() {
		tm := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.Local)
		if s := InternalDate(tm); s != "02-Jan-2020 03:04:05 -0800" {
			t.Fatalf("got %q", s)
		}
	})

	// Roundtrip through the parser.
	tm2, err := ParseDateTime([]byte(InternalDate(tm)), false)
	tcheckf(t, err, "parse")
	if !tm2.Equal(tm) {
		t.Fatalf("got %v, expected %v", tm2, tm)
	}
}

func TestSearchDate(t *testing.T) {
	tm := time.Date(2023, time.March, 9, 23, 59, 59, 0, time.FixedZone("", -10*3600))
	if s := SearchDate(tm); s != "09-Mar-2023" {
		t.Fatalf("got %q", s)
	}
	d := DateOf(tm)
	if d != (Date{2023, time.March, 9}) {
		t.Fatalf("got %v", d)
	}
	if s := d.SearchDate(); s != "09-Mar-2023" {
		t.Fatalf("got %q", s)
	}
	if s := (Date{1999, time.December, 31}).String(); s != "1999-12-31" {
		t.Fatalf("got %q", s)
	}
}
