/*
Package config holds the definition of the configuration file used by the
imapresp command, and its parsing.

The configuration file is optional. Without it, errors are logged, dates in
FETCH responses are converted to the local time zone, and FETCH records are
keyed by UID.

# sconf

The config file is in "sconf" format. Properties of sconf files:

  - Indentation with tabs only.
  - "#" as first non-whitespace character makes the line a comment. Lines with a
    value cannot also have a comment.
  - Values don't have syntax indicating their type. For example, strings are
    not quoted/escaped and can never span multiple lines.
  - Fields that are optional can be left out completely. But the value of an
    optional field may itself have required fields.

See https://pkg.go.dev/github.com/mjl-/sconf for details.

# imapresp.conf

An annotated empty configuration is printed by "imapresp config describe".
Example:

	LogLevel: info
	PackageLogLevels:
		imapclient: debug
	Decode:
		NoNormaliseTimes: true
		MaxLiteralSize: 10485760
	OAuth2:
		imap.example.com:
			TokenURL: https://auth.example.com/oauth2/token
*/
package config
