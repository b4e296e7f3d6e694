package respio

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/mjl-/imapresp/mlog"
)

// Default limits for a LineReader.
const (
	DefaultMaxLine    = 1 << 20
	DefaultMaxLiteral = 1 << 30
)

// A literal declaration at the end of a line, e.g. "{123}", "{123+}" or "~{123}".
var literalDecl = regexp.MustCompile(`~?\{([0-9]+)\+?\}$`)

// LineReader reads responses from an IMAP byte stream, e.g. a connection or a
// file with a protocol trace. Lines end with CRLF or a bare LF. A line ending
// with a literal declaration is followed by the literal data, which is
// returned as separate element in the lines of a response.
type LineReader struct {
	// Literals larger than MaxLiteral cause an error.
	MaxLiteral int64

	log  mlog.Log
	tr   *TraceReader
	br   *bufio.Reader
	pool *Bufpool
}

// NewLineReader returns a reader for responses from r. Lines longer than
// maxLine are refused, if maxLine <= 0, DefaultMaxLine is used. Data read is
// traced to log with prefix "S: ".
func NewLineReader(log mlog.Log, r io.Reader, maxLine int) *LineReader {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	tr := NewTraceReader(log, "S: ", r)
	return &LineReader{
		MaxLiteral: DefaultMaxLiteral,
		log:        log,
		tr:         tr,
		br:         bufio.NewReader(tr),
		pool:       NewBufpool(2, maxLine),
	}
}

// ReadResponse reads the lines of the next response, skipping empty lines. For
// each literal, the line with the declaration is followed by the literal data,
// after which reading the response continues with the next line. At the end of
// the stream, io.EOF is returned.
func (lr *LineReader) ReadResponse() ([][]byte, error) {
	var lines [][]byte
	for {
		line, err := lr.pool.Readline(lr.log, lr.br)
		if err == io.EOF && len(lines) > 0 {
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, err
		}
		if len(line) == 0 && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)

		m := literalDecl.FindSubmatch(line)
		if m == nil {
			return lines, nil
		}
		size, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing literal size: %w", err)
		}
		if size > lr.MaxLiteral {
			return nil, fmt.Errorf("literal of %d bytes larger than maximum %d", size, lr.MaxLiteral)
		}
		buf, err := lr.readLiteral(size)
		if err != nil {
			return nil, err
		}
		lines = append(lines, buf)
	}
}

func (lr *LineReader) readLiteral(size int64) ([]byte, error) {
	lr.tr.SetTrace(mlog.LevelTracedata)
	defer lr.tr.SetTrace(mlog.LevelTrace)

	buf := make([]byte, size)
	if _, err := io.ReadFull(lr.br, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading literal of %d bytes: %w", size, err)
	}
	lr.log.Debug("read literal", slog.Int64("size", size))
	return buf, nil
}

// ReadAll reads all responses until the end of the stream.
func (lr *LineReader) ReadAll() ([][][]byte, error) {
	var l [][][]byte
	for {
		lines, err := lr.ReadResponse()
		if err == io.EOF {
			return l, nil
		} else if err != nil {
			return l, err
		}
		l = append(l, lines)
	}
}

// Size returns the number of bytes read from the underlying reader.
func (lr *LineReader) Size() int64 {
	return lr.tr.Size()
}
