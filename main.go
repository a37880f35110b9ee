package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/mjl-/sconf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imflib/imf/email"
	"github.com/imflib/imf/interop"
	"github.com/imflib/imf/metrics"
	"github.com/imflib/imf/mlog"
	"github.com/imflib/imf/rfc5322"
)

var commands = []struct {
	cmd string
	fn  func(c *cmd)
}{
	{"parse", cmdParse},
	{"check", cmdCheck},
	{"mbox check", cmdMboxCheck},
	{"addr", cmdAddr},
	{"datetime", cmdDatetime},
	{"compose", cmdCompose},
	{"serve", cmdServe},
	{"config describe", cmdConfigDescribe},
	{"version", cmdVersion},
	{"help", cmdHelp},
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

	log *mlog.Log
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
	c.flag = flag.NewFlagSet("imf "+strings.Join(c.words, " "), flag.ExitOnError)
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
	cs := "imf " + strings.Join(c.words, " ")
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

func (c *cmd) printUsage() {
	fmt.Fprint(os.Stderr, c.makeUsage())
	if c.help != "" {
		fmt.Fprint(os.Stderr, "\n"+c.help+"\n")
	}
}

func (c *cmd) Usage() {
	c.printUsage()
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
		line := "imf " + strings.Join(c.words, " ")
		fmt.Printf("%s\n", line)
		if c.help != "" {
			fmt.Printf("\t%s\n", strings.Split(c.help, "\n")[0])
		}
	}
}

func usage(l []cmd) {
	var lines []string
	lines = append(lines, "imf [-loglevel level] [-logfmt] ...")
	for _, c := range l {
		c.gather()
		for _, line := range strings.Split(c.params, "\n") {
			x := append([]string{"imf"}, c.words...)
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

var loglevel string

func main() {
	flag.StringVar(&loglevel, "loglevel", "", "if non-empty, this log level is set early in startup")
	flag.BoolVar(&mlog.Logfmt, "logfmt", false, "write logs in logfmt instead of human-readable form")

	flag.Usage = func() { usage(cmds) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage(cmds)
	}

	ll := loglevel
	if ll == "" {
		ll = "info"
	}
	if level, ok := mlog.Levels[ll]; ok {
		mlog.SetConfig(map[string]mlog.Level{"": level})
	} else {
		fmt.Fprintf(os.Stderr, "unknown loglevel %q\n", loglevel)
		os.Exit(2)
	}

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
		c.flag = flag.NewFlagSet("imf "+strings.Join(c.words, " "), flag.ExitOnError)
		c.flagArgs = args[len(c.words):]
		c.log = mlog.New(c.words[0])
		c.fn(&c)
		return
	}
	if len(partial) > 0 {
		usage(partial)
	}
	usage(cmds)
}

// xcheckf prints the error with a message and exits when the error is not nil.
func xcheckf(c *cmd, err error, format string, args ...any) {
	if err != nil {
		c.log.Fatalx(fmt.Sprintf(format, args...), err)
	}
}

// readInput reads the file, or stdin for "-" or no argument.
func readInput(c *cmd, args []string) ([]byte, string) {
	if len(args) == 0 || args[0] == "-" {
		buf, err := io.ReadAll(os.Stdin)
		xcheckf(c, err, "reading stdin")
		return buf, "stdin"
	}
	buf, err := os.ReadFile(args[0])
	xcheckf(c, err, "reading %s", args[0])
	return buf, args[0]
}

// toCRLF turns bare LF line endings into CRLF. Messages stored in files and
// mboxes commonly have unix line endings.
func toCRLF(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	for i, ch := range buf {
		if ch == '\n' && (i == 0 || buf[i-1] != '\r') {
			out = append(out, '\r', '\n')
			continue
		}
		out = append(out, ch)
	}
	return out
}

func parseMessage(buf []byte) (rfc5322.Message, error) {
	t0 := time.Now()
	msg, err := rfc5322.ParseExact("Message", buf, rfc5322.ParseMessage)
	metrics.ParseObserve("message", time.Since(t0))
	if err != nil {
		metrics.ParseInc("message", "error")
	} else {
		metrics.ParseInc("message", "ok")
	}
	return msg, err
}

func cmdParse(c *cmd) {
	c.params = "[file]"
	c.help = `Parse a message and print its normalized form.

The message is read from the file, or from stdin if no file or "-" is given.
Parsing is strict: the entire input must match the message grammar. The
serialized output has folded whitespace replaced by single spaces and
canonical field name capitalization.
`
	var lax bool
	c.flag.BoolVar(&lax, "lax", false, "convert bare LF line endings to CRLF before parsing")
	args := c.Parse()
	if len(args) > 1 {
		c.Usage()
	}

	buf, name := readInput(c, args)
	if lax {
		buf = toCRLF(buf)
	}
	msg, err := parseMessage(buf)
	xcheckf(c, err, "parsing %s", name)
	_, err = msg.WriteTo(os.Stdout)
	xcheckf(c, err, "writing message")
}

func cmdCheck(c *cmd) {
	c.params = "[file ...]"
	c.help = `Check that messages conform to the message grammar.

Each file is parsed strictly. A line is printed per file with the result. If
any file does not conform, the exit code is 1. With no files, a single message
is read from stdin.
`
	var lax bool
	c.flag.BoolVar(&lax, "lax", false, "convert bare LF line endings to CRLF before parsing")
	args := c.Parse()

	files := args
	if len(files) == 0 {
		files = []string{"-"}
	}
	var bad int
	for _, f := range files {
		buf, name := readInput(c, []string{f})
		if lax {
			buf = toCRLF(buf)
		}
		_, err := parseMessage(buf)
		if err != nil {
			bad++
			fmt.Printf("%s: %s\n", name, err)
			continue
		}
		fmt.Printf("%s: ok\n", name)
	}
	if bad > 0 {
		os.Exit(1)
	}
}

func cmdMboxCheck(c *cmd) {
	c.params = "file"
	c.help = `Check each message in an mbox file.

Messages in mbox files have unix line endings and an initial "From " line,
which are undone before checking. A line is printed per message that does not
conform to the message grammar. The exit code is 1 when any message fails.
`
	args := c.Parse()
	if len(args) != 1 {
		c.Usage()
	}

	f, err := os.Open(args[0])
	xcheckf(c, err, "open %s", args[0])
	defer f.Close()

	var bad int
	mr := mbox.NewReader(f)
	for i := 0; ; i++ {
		r, err := mr.NextMessage()
		if err == io.EOF {
			break
		}
		xcheckf(c, err, "next message in %s", args[0])
		buf, err := io.ReadAll(r)
		xcheckf(c, err, "reading message %d in %s", i, args[0])
		if _, err := parseMessage(toCRLF(buf)); err != nil {
			bad++
			fmt.Printf("message %d: %s\n", i, err)
		}
	}
	fmt.Printf("%d message(s) with errors\n", bad)
	if bad > 0 {
		os.Exit(1)
	}
}

func cmdAddr(c *cmd) {
	c.params = "addresslist ..."
	c.help = `Parse address lists and print the individual addresses.

Each argument is parsed as an address list, e.g. 'Group:a@example.com;, "Joe
Smith" <joe@example.com>'. Group constructs are flattened to their member
addresses. Addresses with an internationalized domain are also printed in
punycode form.
`
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}

	for _, arg := range args {
		l, err := rfc5322.ParseExact("AddressList", []byte(" "+arg), rfc5322.ParseAddressList)
		xcheckf(c, err, "parsing %q", arg)
		var mbs []rfc5322.Mailbox
		for _, a := range l {
			if a.Mailbox != nil {
				mbs = append(mbs, *a.Mailbox)
			} else if a.Group != nil && a.Group.List != nil {
				mbs = append(mbs, a.Group.List.Mailboxes...)
			}
		}
		for _, m := range mbs {
			fmt.Printf("%s\n", interop.MailboxAddress(m).String())
			uni, err := interop.UnicodeDomain(m)
			if err == nil && uni != m.Spec().Domain.Text() {
				fmt.Printf("\tunicode %s\n", uni)
			}
		}
	}
}

func cmdDatetime(c *cmd) {
	c.params = "datetime"
	c.help = `Parse a date-time and print it in normalized and RFC 3339 form.

Example: imf datetime 'Tue, 1 Jul 2003 10:52:37 +0200'
`
	args := c.Parse()
	if len(args) != 1 {
		c.Usage()
	}

	dt, err := rfc5322.ParseExact("DateTime", []byte(" "+args[0]), rfc5322.ParseDateTime)
	xcheckf(c, err, "parsing %q", args[0])
	var sb strings.Builder
	_, err = dt.WriteTo(&sb)
	xcheckf(c, err, "serializing date-time")
	fmt.Printf("%s\n", strings.TrimSpace(sb.String()))
	fmt.Printf("%s\n", dt.AsTime().Format(time.RFC3339))
}

func cmdCompose(c *cmd) {
	c.params = "-from address [-to addresses] [-subject text] ..."
	c.help = `Compose a message and print it.

A Date field with the current time and a Message-ID with a random id are
added. All field values are validated against the message grammar before use.
The body is read from stdin when -body is "-".
`
	var from, to, cc, replyTo, subject, body string
	c.flag.StringVar(&from, "from", "", "mailbox for the From field, required")
	c.flag.StringVar(&to, "to", "", "address list for the To field")
	c.flag.StringVar(&cc, "cc", "", "address list for the Cc field")
	c.flag.StringVar(&replyTo, "replyto", "", "address list for the Reply-To field")
	c.flag.StringVar(&subject, "subject", "", "subject text")
	c.flag.StringVar(&body, "body", "", `body text, or "-" to read the body from stdin`)
	args := c.Parse()
	if len(args) != 0 || from == "" {
		c.Usage()
	}

	e, err := email.New(from)
	xcheckf(c, err, "from address")
	if to != "" {
		xcheckf(c, e.SetTo(to), "to addresses")
	}
	if cc != "" {
		xcheckf(c, e.SetCc(cc), "cc addresses")
	}
	if replyTo != "" {
		xcheckf(c, e.SetReplyTo(replyTo), "replyto addresses")
	}
	if subject != "" {
		xcheckf(c, e.SetSubject(subject), "subject")
	}
	if body == "-" {
		buf, err := io.ReadAll(os.Stdin)
		xcheckf(c, err, "reading stdin")
		body = string(toCRLF(buf))
	}
	if body != "" {
		xcheckf(c, e.SetBody(body), "body")
	}
	_, err = e.WriteTo(os.Stdout)
	xcheckf(c, err, "writing message")
}

// Config is the sconf configuration for the serve command.
type Config struct {
	Listen         string `sconf-doc:"Address to listen on for HTTP, e.g. localhost:8640."`
	LogLevel       string `sconf:"optional" sconf-doc:"Log level: error, info, debug. Default error."`
	MaxMessageSize int64  `sconf:"optional" sconf-doc:"Maximum message size in bytes accepted on the check endpoint. Default 8MiB."`
}

func cmdConfigDescribe(c *cmd) {
	c.params = ">imf.conf"
	c.help = `Print an annotated example config file for the serve command.`
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	err := sconf.Describe(os.Stdout, &Config{Listen: "localhost:8640"})
	xcheckf(c, err, "describing config")
}

func cmdServe(c *cmd) {
	c.params = "[-config imf.conf]"
	c.help = `Serve an HTTP message checking service.

POST /check parses the request body as a message and responds with 200 and
the normalized message, or 400 and the error text. GET /metrics serves
prometheus metrics.
`
	var configPath string
	c.flag.StringVar(&configPath, "config", "imf.conf", "path to config file")
	if len(c.Parse()) != 0 {
		c.Usage()
	}

	cfg := Config{MaxMessageSize: 8 * 1024 * 1024}
	err := sconf.ParseFile(configPath, &cfg)
	xcheckf(c, err, "parsing config file %s", configPath)
	if cfg.LogLevel != "" {
		level, ok := mlog.Levels[cfg.LogLevel]
		if !ok {
			c.log.Fatal("unknown log level in config", mlog.Field("loglevel", cfg.LogLevel))
		}
		mlog.SetConfig(map[string]mlog.Level{"": level})
	}

	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "405 - method not allowed - use POST", http.StatusMethodNotAllowed)
			return
		}
		buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.MaxMessageSize))
		if err != nil {
			http.Error(w, "400 - bad request - reading body", http.StatusBadRequest)
			return
		}
		msg, err := parseMessage(buf)
		if err != nil {
			c.log.Debugx("check: message does not conform", err)
			http.Error(w, "400 - bad request - "+err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "message/rfc822")
		if _, err := msg.WriteTo(w); err != nil {
			c.log.Errorx("writing checked message", err)
		}
	})

	c.log.Print("listening", mlog.Field("addr", cfg.Listen))
	err = http.ListenAndServe(cfg.Listen, nil)
	c.log.Fatalx("serve", err)
}

func cmdVersion(c *cmd) {
	c.help = `Prints this version of imf.`
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println(version)
}
