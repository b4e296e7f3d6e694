package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mjl-/imapresp/imapclient"
	"github.com/mjl-/imapresp/respio"
)

// xreadResponses reads all responses from the file in args, or from stdin.
func (c *cmd) xreadResponses(args []string) [][][]byte {
	var r io.Reader = os.Stdin
	name := "stdin"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		xcheckf(err, "open input")
		defer func() {
			err := f.Close()
			c.log.Check(err, "closing input")
		}()
		r = f
		name = args[0]
	}

	lr := respio.NewLineReader(c.log, r, c.conf.Decode.MaxLineSize)
	if c.conf.Decode.MaxLiteralSize > 0 {
		lr.MaxLiteral = c.conf.Decode.MaxLiteralSize
	}
	l, err := lr.ReadAll()
	xcheckf(err, "reading responses from %s", name)
	c.log.Debug("read responses", slog.String("input", name), slog.Int("responses", len(l)), slog.Int64("bytes", lr.Size()))
	return l
}

func cmdParse(c *cmd) {
	c.params = "[-raw] [file]"
	c.help = `Parse responses and print their values.

Responses are read from file or standard input, as sent by an IMAP server: lines
ending with CRLF or LF, with literal data following a literal declaration like
"{12}". An untagged "* " prefix is removed. Each response is printed on a line,
with strings quoted and lists in parentheses.
`
	var raw bool
	c.flag.BoolVar(&raw, "raw", false, "keep atoms and quoted strings as bytes instead of decoding as ISO-8859-1")
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	f := formatter{}
	opts := imapclient.ParseOpts{Raw: raw, MaxLiteral: c.conf.Decode.MaxLiteralSize}
	for _, resp := range c.xreadResponses(args) {
		lines, _ := respio.StripUntagged(resp, "")
		l, err := imapclient.ParseResponseOpts(lines, opts)
		xcheckf(err, "parsing response")
		fmt.Println(f.list(l))
	}
}

func cmdFetch(c *cmd) {
	c.params = "[-uid] [-normalise] [-charset charset] [file]"
	c.help = `Parse FETCH responses and print the fields per message.

Responses are read like the parse command does. Responses other than untagged
FETCH are skipped. Fields of multiple responses for the same message are merged.
Messages are printed ordered by key, followed by their fields ordered by name.
The defaults for -uid and -normalise come from the config file.
`
	opts := c.conf.FetchOpts()
	var charset string
	c.flag.BoolVar(&opts.UIDIsKey, "uid", opts.UIDIsKey, "key messages by UID if present, instead of by sequence number")
	c.flag.BoolVar(&opts.NormaliseTimes, "normalise", opts.NormaliseTimes, "convert dates to the local time zone")
	c.flag.StringVar(&charset, "charset", "", "decode string values from charset for printing, e.g. iso-8859-1")
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	var lines [][]byte
	for _, resp := range c.xreadResponses(args) {
		l, ok := respio.StripUntagged(resp, "FETCH")
		if !ok {
			c.log.Debug("skipping response that is not untagged fetch", slog.String("line", string(resp[0])))
			continue
		}
		lines = append(lines, l...)
	}
	record, err := imapclient.ParseFetch(lines, opts)
	xcheckf(err, "parsing fetch responses")

	f := formatter{charset: charset}
	for _, key := range record.Keys() {
		fields := record[key]
		fmt.Println(key)
		for _, name := range fields.Names() {
			fmt.Printf("\t%s: %s\n", name, f.value(fields[name]))
		}
	}
}

func cmdSearch(c *cmd) {
	c.params = "[file]"
	c.help = `Parse SEARCH responses and print the message numbers or UIDs.

Responses are read like the parse command does. Responses other than untagged
SEARCH are skipped. For each response, the IDs are printed on a line, followed by
a line with the MODSEQ if present.
`
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	for _, resp := range c.xreadResponses(args) {
		l, ok := respio.StripUntagged(resp, "SEARCH")
		if !ok {
			c.log.Debug("skipping response that is not untagged search", slog.String("line", string(resp[0])))
			continue
		}
		result, err := imapclient.ParseMessageList(l)
		xcheckf(err, "parsing search response")
		ids := make([]string, len(result.IDs))
		for i, id := range result.IDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		fmt.Println(strings.Join(ids, " "))
		if result.ModSeq != nil {
			fmt.Printf("modseq %d\n", *result.ModSeq)
		}
	}
}
