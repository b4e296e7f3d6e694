package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"github.com/mjl-/sconf"

	"github.com/mjl-/imapresp/imapclient"
	"github.com/mjl-/imapresp/mlog"
)

// DefaultOAuth2 returns the known token endpoints of IMAP servers.
func DefaultOAuth2() map[string]OAuth2 {
	return map[string]OAuth2{
		"imap.gmail.com":      {TokenURL: "https://accounts.google.com/o/oauth2/token", AuthURL: "https://accounts.google.com/o/oauth2/auth"},
		"imap.mail.yahoo.com": {TokenURL: "https://api.login.yahoo.com/oauth2/get_token", AuthURL: "https://api.login.yahoo.com/oauth2/request_auth"},
	}
}

// Default returns the configuration used when no configuration file is present.
func Default() *Config {
	c := &Config{Static: Static{LogLevel: "error"}}
	if errs := Prepare(c); len(errs) > 0 {
		panic(fmt.Sprintf("default config: %v", errs))
	}
	return c
}

// ParseConfig parses and checks the configuration file at p.
func ParseConfig(p string) (c *Config, errs []error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, []error{fmt.Errorf("open config file: %v", err)}
	}
	defer f.Close()
	return Parse(p, f)
}

// Parse parses and checks a configuration file read from r. Name is used in
// error messages.
func Parse(name string, r io.Reader) (c *Config, errs []error) {
	c = &Config{}
	if err := sconf.Parse(r, &c.Static); err != nil {
		return nil, []error{fmt.Errorf("parsing %s%v", name, err)}
	}
	if errs := Prepare(c); len(errs) > 0 {
		return nil, errs
	}
	return c, nil
}

// Prepare checks the static configuration in c and sets the derived fields.
func Prepare(c *Config) (errs []error) {
	addErrorf := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if logLevel, ok := mlog.Levels[c.LogLevel]; ok {
		c.Log = map[string]slog.Level{"": logLevel}
	} else {
		c.Log = map[string]slog.Level{"": mlog.LevelError}
		addErrorf("invalid log level %q", c.LogLevel)
	}
	for pkg, s := range c.PackageLogLevels {
		if logLevel, ok := mlog.Levels[s]; ok {
			c.Log[pkg] = logLevel
		} else {
			addErrorf("invalid package log level %q", s)
		}
	}

	if c.Decode.MaxLiteralSize < 0 {
		addErrorf("invalid negative MaxLiteralSize %d", c.Decode.MaxLiteralSize)
	}
	if c.Decode.MaxLineSize < 0 {
		addErrorf("invalid negative MaxLineSize %d", c.Decode.MaxLineSize)
	}

	for host, o := range c.OAuth2 {
		u, err := url.Parse(o.TokenURL)
		if err != nil {
			addErrorf("oauth2 %s: parsing token url: %v", host, err)
		} else if u.Scheme != "https" || u.Host == "" {
			addErrorf("oauth2 %s: token url must be an https url, got %q", host, o.TokenURL)
		}
		if o.AuthURL != "" {
			if u, err := url.Parse(o.AuthURL); err != nil || u.Scheme != "https" || u.Host == "" {
				addErrorf("oauth2 %s: auth url must be an https url, got %q", host, o.AuthURL)
			}
		}
	}
	c.OAuth2Endpoints = OAuth2Endpoints(c.OAuth2)

	return errs
}

// OAuth2Endpoints returns the token endpoints for IMAP servers by lower-case
// hostname, with configured endpoints added to, or replacing, the defaults.
func OAuth2Endpoints(configured map[string]OAuth2) map[string]oauth2.Endpoint {
	r := map[string]oauth2.Endpoint{}
	add := func(m map[string]OAuth2) {
		for host, o := range m {
			r[strings.ToLower(host)] = oauth2.Endpoint{
				AuthURL:   o.AuthURL,
				TokenURL:  o.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			}
		}
	}
	add(DefaultOAuth2())
	add(configured)
	return r
}

// FetchOpts returns the options for parsing FETCH responses.
func (c *Config) FetchOpts() imapclient.FetchOpts {
	return imapclient.FetchOpts{
		NormaliseTimes: !c.Decode.NoNormaliseTimes,
		UIDIsKey:       !c.Decode.NoUIDKey,
		MaxLiteral:     c.Decode.MaxLiteralSize,
	}
}

// Describe writes an annotated empty configuration file to w.
func Describe(w io.Writer) error {
	sc := Static{
		LogLevel: "error",
		OAuth2:   map[string]OAuth2{"x": {}},
	}
	return sconf.Describe(w, &sc)
}
