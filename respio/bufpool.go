package respio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mjl-/imapresp/mlog"
)

var ErrLineTooLong = errors.New("response line too long") // Returned by Bufpool.Readline.

// Bufpool caches byte slices for reuse while reading response lines.
type Bufpool struct {
	c    chan []byte
	size int
}

// NewBufpool makes a new pool, initially empty, but holding at most "max" buffers of "size" bytes each.
func NewBufpool(max, size int) *Bufpool {
	return &Bufpool{
		c:    make(chan []byte, max),
		size: size,
	}
}

func (b *Bufpool) get() []byte {
	var buf []byte
	select {
	case buf = <-b.c:
	default:
	}
	if buf == nil {
		buf = make([]byte, b.size)
	}
	return buf
}

// put returns buf to the pool after clearing its first n bytes. If the pool is
// full, buf is left to the garbage collector.
func (b *Bufpool) put(log mlog.Log, buf []byte, n int) {
	if len(buf) != b.size {
		log.Error("buffer with bad size returned, ignoring", slog.Int("badsize", len(buf)), slog.Int("expsize", b.size))
		return
	}
	clear(buf[:n])
	select {
	case b.c <- buf:
	default:
	}
}

// Readline reads a \n- or \r\n-terminated line and returns a copy of it without
// \n or \r\n. If no data is available, io.EOF is returned. If the data ends
// before a \n, io.ErrUnexpectedEOF is returned. Lines longer than the buffer
// size result in ErrLineTooLong.
func (b *Bufpool) Readline(log mlog.Log, r *bufio.Reader) (line []byte, rerr error) {
	var nread int
	buf := b.get()
	defer func() {
		b.put(log, buf, nread)
	}()

	for {
		if nread >= len(buf) {
			return nil, fmt.Errorf("%w: no newline after all %d bytes", ErrLineTooLong, nread)
		}
		c, err := r.ReadByte()
		if err == io.EOF && nread == 0 {
			return nil, io.EOF
		} else if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, fmt.Errorf("reading line: %w", err)
		}
		if c == '\n' {
			n := nread
			if n > 0 && buf[n-1] == '\r' {
				n--
			}
			line = append([]byte{}, buf[:n]...)
			nread++
			return line, nil
		}
		buf[nread] = c
		nread++
	}
}
