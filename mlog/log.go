// Package mlog provides logging on top of log/slog, with log levels
// configurable per originating package.
//
// Each log line has a field "pkg". The log levels are configured per package,
// e.g. imapclient, utf7. The configuration is application-global, so each Log
// instance uses the same log levels.
//
// Variable data should be in attributes. Logging strings themselves should be
// constant, for easier log processing.
//
// Print* should be used for lines that always should be printed, regardless of
// configured log levels. Useful for startup logging and subcommands.
//
// Fatal* stops the program. Its log text is always printed.
package mlog

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Logfmt makes the default handler write lines in logfmt format.
var Logfmt bool

// Levels below debug are for protocol traces. Traceauth and tracedata are only
// printed with their content when explicitly configured, at trace level the data
// is replaced by "***" or "...".
const (
	LevelTracedata = slog.LevelDebug - 8
	LevelTraceauth = slog.LevelDebug - 6
	LevelTrace     = slog.LevelDebug - 4
	LevelDebug     = slog.LevelDebug
	LevelInfo      = slog.LevelInfo
	LevelError     = slog.LevelError
	LevelPrint     = slog.LevelError + 4 // Printed regardless of configured log level.
	LevelFatal     = slog.LevelError + 8 // Printed regardless of configured log level.
)

var LevelStrings = map[slog.Level]string{
	LevelTracedata: "tracedata",
	LevelTraceauth: "traceauth",
	LevelTrace:     "trace",
	LevelDebug:     "debug",
	LevelInfo:      "info",
	LevelError:     "error",
	LevelPrint:     "print",
	LevelFatal:     "fatal",
}

var Levels = map[string]slog.Level{
	"tracedata": LevelTracedata,
	"traceauth": LevelTraceauth,
	"trace":     LevelTrace,
	"debug":     LevelDebug,
	"info":      LevelInfo,
	"error":     LevelError,
	"print":     LevelPrint,
	"fatal":     LevelFatal,
}

// Holds a map[string]slog.Level, mapping a package (field pkg in logs) to a log
// level. The empty string is the default/fallback log level.
var config atomic.Value

func init() {
	config.Store(map[string]slog.Level{"": LevelError})
}

// SetConfig atomically sets the new log levels used by all Log instances.
func SetConfig(c map[string]slog.Level) {
	config.Store(c)
}

// Config returns the currently configured log levels.
func Config() map[string]slog.Level {
	return config.Load().(map[string]slog.Level)
}

// Log wraps a slog.Logger with helpers for logging with errors and traces.
type Log struct {
	*slog.Logger
}

// New returns a Log for pkg. If elog is nil, lines are written to stderr,
// filtered by the configured level for pkg. Otherwise lines are passed on to
// elog with an additional attribute "pkg".
func New(pkg string, elog *slog.Logger) Log {
	if elog == nil {
		elog = slog.New(&handler{pkg: pkg, out: os.Stderr, mu: &sync.Mutex{}})
	}
	return Log{elog.With(slog.String("pkg", pkg))}
}

// WithFunc returns a Log that calls fn before each log line, adding the returned
// attributes.
func (l Log) WithFunc(fn func() []slog.Attr) Log {
	return Log{slog.New(&funcHandler{l.Logger.Handler(), fn})}
}

func (l Log) logx(level slog.Level, err error, msg string, attrs ...slog.Attr) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}
	if err != nil {
		attrs = append([]slog.Attr{slog.String("err", err.Error())}, attrs...)
	}
	l.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (l Log) Fatal(msg string, attrs ...slog.Attr) { l.Fatalx(msg, nil, attrs...) }
func (l Log) Fatalx(msg string, err error, attrs ...slog.Attr) {
	l.logx(LevelFatal, err, msg, attrs...)
	os.Exit(1)
}

func (l Log) Print(msg string, attrs ...slog.Attr) { l.logx(LevelPrint, nil, msg, attrs...) }
func (l Log) Printx(msg string, err error, attrs ...slog.Attr) {
	l.logx(LevelPrint, err, msg, attrs...)
}

func (l Log) Debug(msg string, attrs ...slog.Attr) { l.logx(LevelDebug, nil, msg, attrs...) }
func (l Log) Debugx(msg string, err error, attrs ...slog.Attr) {
	l.logx(LevelDebug, err, msg, attrs...)
}

func (l Log) Info(msg string, attrs ...slog.Attr) { l.logx(LevelInfo, nil, msg, attrs...) }
func (l Log) Infox(msg string, err error, attrs ...slog.Attr) {
	l.logx(LevelInfo, err, msg, attrs...)
}

func (l Log) Error(msg string, attrs ...slog.Attr) { l.logx(LevelError, nil, msg, attrs...) }
func (l Log) Errorx(msg string, err error, attrs ...slog.Attr) {
	l.logx(LevelError, err, msg, attrs...)
}

// Check logs an error if err is not nil. Intended for logging errors that are
// good to know, but would not influence program flow, e.g. closing a file.
func (l Log) Check(err error, msg string, attrs ...slog.Attr) {
	if err != nil {
		l.Errorx(msg, err, attrs...)
	}
}

// Trace logs data read or written at a trace level, with prefix. If level is
// traceauth or tracedata and only trace is enabled, the data is replaced with
// "***" or "...".
func (l Log) Trace(level slog.Level, prefix string, data []byte) {
	ctx := context.Background()
	if l.Logger.Enabled(ctx, level) {
		l.Logger.LogAttrs(ctx, LevelTrace, prefix+string(data))
		return
	}
	if !l.Logger.Enabled(ctx, LevelTrace) {
		return
	}
	switch level {
	case LevelTraceauth:
		l.Logger.LogAttrs(ctx, LevelTrace, prefix+"***")
	case LevelTracedata:
		l.Logger.LogAttrs(ctx, LevelTrace, prefix+"...")
	}
}

type funcHandler struct {
	slog.Handler
	fn func() []slog.Attr
}

func (h *funcHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.fn()...)
	return h.Handler.Handle(ctx, r)
}

func (h *funcHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &funcHandler{h.Handler.WithAttrs(attrs), h.fn}
}

func (h *funcHandler) WithGroup(name string) slog.Handler {
	return &funcHandler{h.Handler.WithGroup(name), h.fn}
}

// handler writes log lines to out for a single package.
type handler struct {
	pkg    string
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string // Group prefix for keys.
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= LevelPrint {
		return true
	}
	cl := Config()
	v, ok := cl[h.pkg]
	if !ok {
		v, ok = cl[""]
	}
	return ok && level >= v
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), h.prefixed(attrs)...)
	return &nh
}

func (h *handler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.prefix += name + "."
	return &nh
}

func (h *handler) prefixed(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}
	l := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		l[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}
	return l
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := append([]slog.Attr{}, h.attrs...)
	var more []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		more = append(more, a)
		return true
	})
	attrs = append(attrs, h.prefixed(more)...)

	level := LevelStrings[r.Level]
	if level == "" {
		level = strings.ToLower(r.Level.String())
	}

	// We build up a buffer so we can do a single atomic write of the data. Otherwise
	// partial log lines may interleave.
	b := &bytes.Buffer{}
	if Logfmt {
		fmt.Fprintf(b, "l=%s m=%s", level, logfmtValue(r.Message))
		for _, a := range attrs {
			fmt.Fprintf(b, " %s=%s", a.Key, logfmtValue(stringValue(a.Value)))
		}
	} else {
		fmt.Fprintf(b, "%s: %s", level, logfmtValue(r.Message))
		var rest []slog.Attr
		for _, a := range attrs {
			if a.Key == "err" {
				fmt.Fprintf(b, ": %s", logfmtValue(stringValue(a.Value)))
			} else {
				rest = append(rest, a)
			}
		}
		if len(rest) > 0 {
			b.WriteString(" (")
			for i, a := range rest {
				if i > 0 {
					b.WriteString("; ")
				}
				fmt.Fprintf(b, "%s: %s", a.Key, logfmtValue(stringValue(a.Value)))
			}
			b.WriteString(")")
		}
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(b.Bytes())
	return err
}

// escape logfmt string if required, otherwise return original string.
func logfmtValue(s string) string {
	for _, c := range s {
		if c == '"' || c == '\\' || c <= ' ' || c == '=' || c >= 0x7f {
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}

func stringValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case []byte:
			return base64.RawURLEncoding.EncodeToString(x)
		case []string:
			return "[" + strings.Join(x, ",") + "]"
		}
	}
	return fmt.Sprintf("%v", v.Any())
}
