package imapclient

import (
	"bytes"
	"regexp"
	"strconv"
)

// SearchResult holds the message numbers or UIDs of a SEARCH response, in order
// as sent by the server.
type SearchResult struct {
	IDs []int64

	// Set if the response included a MODSEQ, with CONDSTORE. RFC 7162
	ModSeq *int64
}

var messageListPrefix = regexp.MustCompile(`^[0-9]+(?: +[0-9]+)*`)

// ParseMessageList parses the data of a SEARCH response, without the leading "*"
// and "SEARCH", e.g. `1 2 3 (MODSEQ 123)`. The items are joined with spaces.
//
// The IDs are read from the start. Data after the IDs is ignored, except for a
// MODSEQ followed by a number. An empty list is valid, data that does not start
// with an ID is not.
func ParseMessageList(items [][]byte) (result SearchResult, rerr error) {
	defer func() {
		decoded("search", len(items), rerr)
	}()
	defer recoverError(&rerr)

	data := bytes.Join(items, []byte(" "))
	result.IDs = []int64{}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	m := messageListPrefix.Find(data)
	if m == nil {
		xerrorf("invalid message list %q", data)
	}
	for _, s := range bytes.Fields(m) {
		id, err := strconv.ParseInt(string(s), 10, 64)
		xcheckf(err, "parsing message id")
		result.IDs = append(result.IDs, id)
	}

	l := NewLexer([][]byte{data})
	for {
		tok, err := l.Next()
		if err != nil {
			// Including data that cannot be lexed, it is ignored.
			break
		}
		if tok.Kind != TokenAtom || !bytes.EqualFold(tok.Buf, []byte("MODSEQ")) {
			continue
		}
		tok, ok := l.xnext()
		if !ok {
			break
		}
		if tok.Kind != TokenNumber {
			xerrorf("modseq: expected number, got %s", tok)
		}
		modseq := tok.Num
		result.ModSeq = &modseq
		break
	}
	return result, nil
}
