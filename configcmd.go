package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/oauth2"

	"github.com/mjl-/imapresp/config"
)

func cmdConfigTest(c *cmd) {
	c.params = "[file]"
	c.help = `Parses and checks a configuration file.

Without file, the configuration file from the -config flag is checked. If valid,
the command prints "config OK".
`
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	// The file from -config has already been checked at startup.
	if len(args) == 1 {
		_, errs := config.ParseConfig(args[0])
		if len(errs) > 1 {
			log.Printf("multiple errors:")
			for _, err := range errs {
				log.Printf("%s", err)
			}
			os.Exit(1)
		} else if len(errs) == 1 {
			log.Fatalf("%s", errs[0])
		}
	}
	fmt.Println("config OK")
}

func cmdConfigDescribe(c *cmd) {
	c.help = `Prints an annotated empty configuration file.

The output is in sconf format, with comments explaining each field.
`
	if len(c.Parse()) != 0 {
		c.Usage()
	}

	err := config.Describe(os.Stdout)
	xcheckf(err, "describing config")
}

func cmdConfigOAuth2(c *cmd) {
	c.params = "[-clientid id] [-scope scope] [host]"
	c.help = `Prints the OAuth2 token endpoints for IMAP servers.

Without host, all known endpoints are printed, including those from the
configuration file. With host, only the endpoint for that host is printed. If
-clientid is set as well and the endpoint has an authorization URL, the URL to
start authorization by the user is printed.
`
	var clientID string
	var scopes []string
	c.flag.StringVar(&clientID, "clientid", "", "oauth2 client id for the authorization url")
	c.flag.Func("scope", "scope to request in the authorization url, can be repeated", func(s string) error {
		scopes = append(scopes, s)
		return nil
	})
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	endpoints := c.conf.OAuth2Endpoints
	if len(args) == 0 {
		hosts := maps.Keys(endpoints)
		slices.Sort(hosts)
		for _, host := range hosts {
			fmt.Printf("%s\t%s\n", host, endpoints[host].TokenURL)
		}
		return
	}

	host := strings.ToLower(args[0])
	ep, ok := endpoints[host]
	if !ok {
		log.Fatalf("no oauth2 endpoint for %s", host)
	}
	fmt.Printf("token url: %s\n", ep.TokenURL)
	if ep.AuthURL != "" {
		fmt.Printf("auth url: %s\n", ep.AuthURL)
	}
	if clientID != "" && ep.AuthURL != "" {
		oc := oauth2.Config{ClientID: clientID, Endpoint: ep, Scopes: scopes}
		fmt.Printf("authorize: %s\n", oc.AuthCodeURL("imapresp", oauth2.AccessTypeOffline))
	}
}
