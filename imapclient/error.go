package imapclient

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mjl-/imapresp/metrics"
)

// ErrProtocol is wrapped by all errors about malformed responses.
var ErrProtocol = errors.New("imap protocol error")

// Error is a parse error, wrapping ErrProtocol.
type Error struct{ err error }

func (e Error) Error() string {
	return e.err.Error()
}

func (e Error) Unwrap() error {
	return e.err
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}

func xerrorf(format string, args ...any) {
	panic(Error{errorf(format, args...)})
}

func xcheckf(err error, format string, args ...any) {
	if err != nil {
		panic(Error{fmt.Errorf("%w: %s: %w", ErrProtocol, fmt.Sprintf(format, args...), err)})
	}
}

// recoverError turns an Error panic into an error return. Other panics are
// passed on.
func recoverError(rerr *error) {
	x := recover()
	if x == nil {
		return
	}
	if err, ok := x.(Error); ok {
		*rerr = err
		return
	}
	metrics.PanicInc("imapclient")
	panic(x)
}

// decoded registers the result of decoding a response.
func decoded(kind string, nlines int, err error) {
	metrics.DecodeResult(kind, err)
	if err != nil {
		pkglog.Debugx("decoding response", err, slog.String("kind", kind), slog.Int("lines", nlines))
	}
}
