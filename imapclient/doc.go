/*
Package imapclient decodes IMAP4 server responses into Go values.

Responses are passed in as lines, as read from the connection without their
line terminator. When a line ends with a literal declaration, e.g. "{12}", the
literal data follows in the next line(s). The lines are lexed into a stream of
tokens by [Lexer]. [ParseResponse] turns the tokens into a tree of values,
[ParseFetch] decodes FETCH responses into a record of fields per message, and
[ParseMessageList] decodes the message numbers of SEARCH responses.

Mailbox names in LIST responses are in modified UTF-7, see [DecodeMailbox].

Parsing functions return errors of type [Error], which wrap [ErrProtocol].
*/
package imapclient

import (
	"github.com/mjl-/imapresp/mlog"
)

var pkglog = mlog.New("imapclient", nil)
