package main

import (
	"fmt"

	"github.com/mjl-/imapresp/utf7"
)

func cmdUTF7Encode(c *cmd) {
	c.params = "name ..."
	c.help = `Encode mailbox names to modified UTF-7.

Modified UTF-7 is used for mailbox names by IMAP servers that do not have UTF-8
enabled. Each name is printed on its own line.
`
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}

	for _, name := range args {
		fmt.Println(utf7.EncodeString(name))
	}
}

func cmdUTF7Decode(c *cmd) {
	c.params = "[-strict] name ..."
	c.help = `Decode mailbox names from modified UTF-7.

Without -strict, a name that is not valid modified UTF-7 is printed as is, like
mail clients typically treat mailbox names from servers. With -strict, an
invalid name is an error.
`
	var strict bool
	c.flag.BoolVar(&strict, "strict", false, "fail on invalid modified UTF-7")
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}

	for _, name := range args {
		if strict {
			s, err := utf7.StrictDecode([]byte(name))
			xcheckf(err, "decoding %q", name)
			fmt.Println(s)
		} else {
			fmt.Println(utf7.DecodeString(name))
		}
	}
}
