package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mjl-/imapresp/config"
	"github.com/mjl-/imapresp/metrics"
	"github.com/mjl-/imapresp/mlog"
)

var commands = []struct {
	cmd string
	fn  func(c *cmd)
}{
	{"parse", cmdParse},
	{"fetch", cmdFetch},
	{"search", cmdSearch},
	{"utf7 encode", cmdUTF7Encode},
	{"utf7 decode", cmdUTF7Decode},
	{"date parse", cmdDateParse},
	{"date internaldate", cmdDateInternaldate},
	{"date search", cmdDateSearch},
	{"config test", cmdConfigTest},
	{"config describe", cmdConfigDescribe},
	{"config oauth2", cmdConfigOAuth2},
	{"help", cmdHelp},
	{"version", cmdVersion},
}

var cmds []cmd

func init() {
	for _, xc := range commands {
		c := cmd{words: strings.Split(xc.cmd, " "), fn: xc.fn}
		cmds = append(cmds, c)
	}
}

type cmd struct {
	words []string
	fn    func(c *cmd)

	// Set before calling command.
	flag     *flag.FlagSet
	flagArgs []string
	_gather  bool // Set when using Parse to gather usage for a command.

	// Set by invoked command or Parse.
	params string // Arguments to command. Multiple lines possible.
	help   string // Additional explanation. First line is synopsis, the rest is only printed for an explicit help/usage for that command.
	args   []string

	log  mlog.Log
	conf *config.Config
}

func (c *cmd) Parse() []string {
	// To gather params and usage information, we just run the command but cause this
	// panic after the command has registered its flags and set its params and help
	// information. This is then caught and that info printed.
	if c._gather {
		panic("gather")
	}

	c.flag.Usage = c.Usage
	c.flag.Parse(c.flagArgs)
	c.args = c.flag.Args()
	return c.args
}

func (c *cmd) gather() {
	c.flag = flag.NewFlagSet("imapresp "+strings.Join(c.words, " "), flag.ExitOnError)
	c.conf = config.Default()
	c._gather = true
	defer func() {
		x := recover()
		// panic generated by Parse.
		if x != "gather" {
			panic(x)
		}
	}()
	c.fn(c)
}

func (c *cmd) makeUsage() string {
	var r strings.Builder
	cs := "imapresp " + strings.Join(c.words, " ")
	for i, line := range strings.Split(strings.TrimSpace(c.params), "\n") {
		s := ""
		if i == 0 {
			s = "usage:"
		}
		if line != "" {
			line = " " + line
		}
		fmt.Fprintf(&r, "%6s %s%s\n", s, cs, line)
	}
	c.flag.SetOutput(&r)
	c.flag.PrintDefaults()
	return r.String()
}

func (c *cmd) Usage() {
	fmt.Fprint(os.Stderr, c.makeUsage())
	if c.help != "" {
		fmt.Fprint(os.Stderr, "\n"+c.help+"\n")
	}
	os.Exit(2)
}

func cmdHelp(c *cmd) {
	c.params = "[command ...]"
	c.help = `Prints help about matching commands.

If multiple commands match, they are listed along with the first line of their help text.
If a single command matches, its usage and full help text is printed.
`
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}

	prefix := func(l, pre []string) bool {
		if len(pre) > len(l) {
			return false
		}
		return slices.Equal(pre, l[:len(pre)])
	}

	var partial []cmd
	for _, c := range cmds {
		if slices.Equal(c.words, args) {
			c.gather()
			fmt.Print(c.makeUsage())
			if c.help != "" {
				fmt.Print("\n" + c.help + "\n")
			}
			return
		} else if prefix(c.words, args) {
			partial = append(partial, c)
		}
	}
	if len(partial) == 0 {
		fmt.Fprintf(os.Stderr, "%s: unknown command\n", strings.Join(args, " "))
		os.Exit(2)
	}
	for _, c := range partial {
		c.gather()
		fmt.Printf("imapresp %s\n", strings.Join(c.words, " "))
		if c.help != "" {
			fmt.Printf("\t%s\n", strings.Split(c.help, "\n")[0])
		}
	}
}

func cmdVersion(c *cmd) {
	c.help = "Prints this imapresp version."
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	fmt.Println(version)
	fmt.Printf("%s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func usage(l []cmd) {
	lines := []string{"imapresp [-config imapresp.conf] [-loglevel level] [-metrics] ..."}
	for _, c := range l {
		c.gather()
		for _, line := range strings.Split(c.params, "\n") {
			x := append([]string{"imapresp"}, c.words...)
			if line != "" {
				x = append(x, line)
			}
			lines = append(lines, strings.Join(x, " "))
		}
	}
	for i, line := range lines {
		pre := "       "
		if i == 0 {
			pre = "usage: "
		}
		fmt.Fprintln(os.Stderr, pre+line)
	}
	os.Exit(2)
}

func envString(k, def string) string {
	s := os.Getenv(k)
	if s == "" {
		return def
	}
	return s
}

func main() {
	log.SetFlags(0)

	var configPath, loglevel string
	var printMetrics bool
	flag.StringVar(&configPath, "config", envString("IMAPRESPCONF", ""), "configuration file, defaults to $IMAPRESPCONF; without config file, defaults apply")
	flag.StringVar(&loglevel, "loglevel", "", "if non-empty, overrides the default log level of the config file")
	flag.BoolVar(&printMetrics, "metrics", false, "print the decoding metrics to stderr after the command")

	flag.Usage = func() { usage(cmds) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage(cmds)
	}

	conf := config.Default()
	if configPath != "" {
		var errs []error
		conf, errs = config.ParseConfig(configPath)
		if len(errs) > 0 {
			for _, err := range errs {
				log.Printf("%s", err)
			}
			log.Fatalf("invalid config file %s", configPath)
		}
	}
	if loglevel != "" {
		level, ok := mlog.Levels[loglevel]
		if !ok {
			log.Fatalf("unknown loglevel %q", loglevel)
		}
		conf.Log[""] = level
	}
	mlog.SetConfig(conf.Log)

	var partial []cmd
next:
	for _, c := range cmds {
		for i, w := range c.words {
			if i >= len(args) || w != args[i] {
				if i > 0 {
					partial = append(partial, c)
				}
				continue next
			}
		}
		c.flag = flag.NewFlagSet("imapresp "+strings.Join(c.words, " "), flag.ExitOnError)
		c.flagArgs = args[len(c.words):]
		c.log = mlog.New(strings.Join(c.words, ""), nil)
		c.conf = conf
		c.fn(&c)
		if printMetrics {
			writeMetrics(os.Stderr)
		}
		return
	}
	if len(partial) > 0 {
		usage(partial)
	}
	usage(cmds)
}

func writeMetrics(w io.Writer) {
	counters, err := metrics.Counters()
	xcheckf(err, "gathering metrics")
	keys := maps.Keys(counters)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s %v\n", k, counters[k])
	}
}

func xcheckf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	log.Fatalf("%s: %s", msg, err)
}
