package mlog

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func tlog(pkg string) (Log, *bytes.Buffer) {
	out := &bytes.Buffer{}
	h := &handler{pkg: pkg, out: out, mu: &sync.Mutex{}}
	return New(pkg, slog.New(h)), out
}

func withConfig(t *testing.T, c map[string]slog.Level) {
	t.Helper()
	orig := Config()
	SetConfig(c)
	t.Cleanup(func() { SetConfig(orig) })
}

func TestLevels(t *testing.T) {
	withConfig(t, map[string]slog.Level{"": LevelError, "test": LevelDebug})

	log, out := tlog("test")
	log.Debug("visible")
	log.Trace(LevelTrace, "S: ", []byte("hidden"))
	if s := out.String(); !strings.Contains(s, "debug: visible") || strings.Contains(s, "hidden") {
		t.Fatalf("unexpected output %q", s)
	}

	other, out := tlog("other")
	other.Info("hidden")
	other.Print("always")
	if s := out.String(); strings.Contains(s, "hidden") || !strings.Contains(s, "print: always") {
		t.Fatalf("unexpected output %q", s)
	}
}

func TestFormat(t *testing.T) {
	withConfig(t, map[string]slog.Level{"": LevelDebug})

	log, out := tlog("test")
	log.Debugx("reading", errors.New("boom"), slog.String("file", "a b"), slog.Int("n", 3))
	exp := `debug: reading: boom (pkg: test; file: "a b"; n: 3)` + "\n"
	if s := out.String(); s != exp {
		t.Fatalf("got %q, expected %q", s, exp)
	}

	Logfmt = true
	defer func() { Logfmt = false }()
	out.Reset()
	log.Debugx("reading", errors.New("boom"), slog.Bool("ok", false))
	exp = `l=debug m=reading pkg=test err=boom ok=false` + "\n"
	if s := out.String(); s != exp {
		t.Fatalf("got %q, expected %q", s, exp)
	}
}

func TestCheck(t *testing.T) {
	withConfig(t, map[string]slog.Level{"": LevelError})

	log, out := tlog("test")
	log.Check(nil, "closing")
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
	log.Check(errors.New("bad"), "closing")
	if s := out.String(); s != "error: closing: bad (pkg: test)\n" {
		t.Fatalf("unexpected output %q", s)
	}
}

func TestTrace(t *testing.T) {
	withConfig(t, map[string]slog.Level{"": LevelTrace})

	log, out := tlog("test")
	log.Trace(LevelTrace, "S: ", []byte("* OK"))
	log.Trace(LevelTraceauth, "C: ", []byte("secret"))
	log.Trace(LevelTracedata, "S: ", []byte("data"))
	exp := "trace: \"S: * OK\" (pkg: test)\ntrace: \"C: ***\" (pkg: test)\ntrace: \"S: ...\" (pkg: test)\n"
	if s := out.String(); s != exp {
		t.Fatalf("got %q, expected %q", s, exp)
	}

	SetConfig(map[string]slog.Level{"": LevelTracedata})
	out.Reset()
	log.Trace(LevelTracedata, "S: ", []byte("data"))
	if s := out.String(); s != "trace: \"S: data\" (pkg: test)\n" {
		t.Fatalf("unexpected output %q", s)
	}
}
