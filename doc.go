/*
Command imapresp parses responses of IMAP servers, as captured from a
connection, and prints the decoded values.

  - Generic parsing of responses into values: numbers, strings, lists and NIL.
  - FETCH responses decoded to records per message, with dates, envelopes and
    body structures.
  - SEARCH responses decoded to message numbers or UIDs, with MODSEQ.
  - Modified UTF-7 mailbox names, and IMAP dates.

# Commands

	imapresp [-config imapresp.conf] [-loglevel level] [-metrics] ...
	imapresp parse [-raw] [file]
	imapresp fetch [-uid] [-normalise] [-charset charset] [file]
	imapresp search [file]
	imapresp utf7 encode name ...
	imapresp utf7 decode [-strict] name ...
	imapresp date parse [-normalise] date ...
	imapresp date internaldate now | rfc3339-time
	imapresp date search now | rfc3339-time | yyyy-mm-dd
	imapresp config test [file]
	imapresp config describe
	imapresp config oauth2 [-clientid id] [-scope scope] [host]
	imapresp help [command ...]
	imapresp version

The configuration file is optional. Specify it through the -config flag or the
IMAPRESPCONF environment variable. Without configuration file, defaults apply.

# imapresp parse

Parse responses and print their values.

Responses are read from file or standard input, as sent by an IMAP server: lines
ending with CRLF or LF, with literal data following a literal declaration like
"{12}". An untagged "* " prefix is removed. Each response is printed on a line,
with strings quoted and lists in parentheses.

	usage: imapresp parse [-raw] [file]
	  -raw
	    	keep atoms and quoted strings as bytes instead of decoding as ISO-8859-1

# imapresp fetch

Parse FETCH responses and print the fields per message.

Responses are read like the parse command does. Responses other than untagged
FETCH are skipped. Fields of multiple responses for the same message are merged.
Messages are printed ordered by key, followed by their fields ordered by name.
The defaults for -uid and -normalise come from the config file.

	usage: imapresp fetch [-uid] [-normalise] [-charset charset] [file]
	  -charset string
	    	decode string values from charset for printing, e.g. iso-8859-1
	  -normalise
	    	convert dates to the local time zone (default true)
	  -uid
	    	key messages by UID if present, instead of by sequence number (default true)

# imapresp search

Parse SEARCH responses and print the message numbers or UIDs.

Responses are read like the parse command does. Responses other than untagged
SEARCH are skipped. For each response, the IDs are printed on a line, followed by
a line with the MODSEQ if present.

	usage: imapresp search [file]

# imapresp utf7 encode

Encode mailbox names to modified UTF-7.

Modified UTF-7 is used for mailbox names by IMAP servers that do not have UTF-8
enabled. Each name is printed on its own line.

	usage: imapresp utf7 encode name ...

# imapresp utf7 decode

Decode mailbox names from modified UTF-7.

Without -strict, a name that is not valid modified UTF-7 is printed as is, like
mail clients typically treat mailbox names from servers. With -strict, an
invalid name is an error.

	usage: imapresp utf7 decode [-strict] name ...
	  -strict
	    	fail on invalid modified UTF-7

# imapresp date parse

Parse a date as found in IMAP responses.

Accepted are INTERNALDATE values, e.g. "17-Jul-1996 02:44:25 -0700", and
message header dates like "Wed, 17 Jul 1996 02:44:25 -0700", including common
variations. Multiple parameters are joined with a space. The date is printed in
RFC 3339 format and as INTERNALDATE.

	usage: imapresp date parse [-normalise] date ...
	  -normalise
	    	convert to the local time zone

# imapresp date internaldate

Format a time as INTERNALDATE, e.g. for an APPEND command.

	usage: imapresp date internaldate now | rfc3339-time

# imapresp date search

Format a date for use in SEARCH criteria like SINCE and BEFORE.

	usage: imapresp date search now | rfc3339-time | yyyy-mm-dd

# imapresp config test

Parses and checks a configuration file.

Without file, the configuration file from the -config flag is checked. If valid,
the command prints "config OK".

	usage: imapresp config test [file]

# imapresp config describe

Prints an annotated empty configuration file.

The output is in sconf format, with comments explaining each field.

	usage: imapresp config describe

# imapresp config oauth2

Prints the OAuth2 token endpoints for IMAP servers.

Without host, all known endpoints are printed, including those from the
configuration file. With host, only the endpoint for that host is printed. If
-clientid is set as well and the endpoint has an authorization URL, the URL to
start authorization by the user is printed.

	usage: imapresp config oauth2 [-clientid id] [-scope scope] [host]
	  -clientid string
	    	oauth2 client id for the authorization url
	  -scope value
	    	scope to request in the authorization url, can be repeated

# imapresp help

Prints help about matching commands.

If multiple commands match, they are listed along with the first line of their help text.
If a single command matches, its usage and full help text is printed.

	usage: imapresp help [command ...]

# imapresp version

Prints this imapresp version.

	usage: imapresp version
*/
package main
