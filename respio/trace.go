package respio

import (
	"io"
	"log/slog"

	"github.com/mjl-/imapresp/mlog"
)

// TraceReader logs data read through it, and counts the bytes.
type TraceReader struct {
	log    mlog.Log
	prefix string
	r      io.Reader
	level  slog.Level
	size   int64
}

// NewTraceReader wraps reader "r" into a reader that logs all reads to "log"
// with log level trace, prefixed with "prefix".
func NewTraceReader(log mlog.Log, prefix string, r io.Reader) *TraceReader {
	return &TraceReader{log, prefix, r, mlog.LevelTrace, 0}
}

// Read does a single Read on its underlying reader, logs data of successful
// reads, and returns the data read.
func (r *TraceReader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)
	if n > 0 {
		r.size += int64(n)
		r.log.Trace(r.level, r.prefix, buf[:n])
	}
	return n, err
}

// SetTrace changes the level for subsequent reads, e.g. to LevelTracedata while
// reading literal data.
func (r *TraceReader) SetTrace(level slog.Level) {
	r.level = level
}

// Size returns the number of bytes read so far.
func (r *TraceReader) Size() int64 {
	return r.size
}
