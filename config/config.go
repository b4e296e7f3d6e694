package config

import (
	"log/slog"

	"golang.org/x/oauth2"
)

// Static is a parsed form of the imapresp.conf configuration file.
type Static struct {
	LogLevel         string            `sconf-doc:"NOTE: This config file is in 'sconf' format. Indent with tabs. Comments must be on their own line, they don't end a line. Do not escape or quote strings. Details: https://pkg.go.dev/github.com/mjl-/sconf.\n\n\nDefault log level, one of: error, info, debug, trace, traceauth, tracedata. Trace logs the responses read, with tracedata also the contents of literals."`
	PackageLogLevels map[string]string `sconf:"optional" sconf-doc:"Overrides of log level per package (e.g. imapclient, utf7, respio)."`
	Decode           Decode            `sconf:"optional" sconf-doc:"Options for decoding responses."`
	OAuth2           map[string]OAuth2 `sconf:"optional" sconf-doc:"OAuth2 token endpoints for IMAP servers, keyed by hostname, e.g. imap.example.com. Used by clients to refresh access tokens. Entries for imap.gmail.com and imap.mail.yahoo.com are present by default, and can be overridden."`
}

// Decode holds options for decoding responses.
type Decode struct {
	NoNormaliseTimes bool  `sconf:"optional" sconf-doc:"If set, dates in FETCH responses keep the time zone offset sent by the server. By default, dates are converted to the local time zone."`
	NoUIDKey         bool  `sconf:"optional" sconf-doc:"If set, FETCH records are keyed by message sequence number, with the UID as regular field. By default, records are keyed by UID when present."`
	MaxLiteralSize   int64 `sconf:"optional" sconf-doc:"Maximum size in bytes of literals in responses. Default 1GB."`
	MaxLineSize      int   `sconf:"optional" sconf-doc:"Maximum length in bytes of a response line, excluding literals. Default 1MB."`
}

// OAuth2 is a token endpoint for an IMAP server.
type OAuth2 struct {
	TokenURL string `sconf-doc:"URL for requesting and refreshing access tokens, must be https."`
	AuthURL  string `sconf:"optional" sconf-doc:"URL for authorization by the user, if known."`
}

// Config is a parsed and checked configuration.
type Config struct {
	Static

	// Log levels per package, "" is the default. Derived from LogLevel and
	// PackageLogLevels.
	Log map[string]slog.Level

	// OAuth2 token endpoints by lower-case hostname, including defaults. Must not be
	// modified.
	OAuth2Endpoints map[string]oauth2.Endpoint
}
