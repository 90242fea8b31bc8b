// Package cli defines the yellowball command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"yellowball/internal/lottery"
)

// WatchFromConfig is the --watch value used when the flag is given bare; the
// schedule then comes from check_schedule.
const WatchFromConfig = "config"

const defaultHistory = 10

// UsageError is a malformed command line. The caller prints Usage and exits 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

type Options struct {
	Help    bool
	Version bool
	Verbose bool

	ConfigPath string
	TicketFile string

	NoColor     bool
	LastOnly    bool
	WinnersOnly bool

	SendMail   bool
	MailTo     []string
	MailFrom   string
	MailServer string
	Slack      bool

	QuickPick bool
	SaveFile  string

	Numbers   string
	MegaBall  string
	Megaplier bool
	Draws     string
	Purchased string

	Watch   string
	History int
	Offline bool
}

// HasTicketFlags reports whether any ticket field was given on the command line.
func (o Options) HasTicketFlags() bool {
	return o.Numbers != "" || o.MegaBall != "" || o.Purchased != ""
}

// CompleteTicketFlags reports whether the required ticket fields were given.
func (o Options) CompleteTicketFlags() bool {
	return o.Numbers != "" && o.MegaBall != "" && o.Purchased != ""
}

func (o Options) TicketInput() lottery.TicketInput {
	return lottery.TicketInput{
		Numbers:   strings.ReplaceAll(o.Numbers, " ", ""),
		MegaBall:  o.MegaBall,
		Megaplier: o.Megaplier,
		Draws:     o.Draws,
		Purchased: o.Purchased,
	}
}

func newFlagSet(o *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("yellowball", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&o.Help, "help", "h", false, "show this help message and exit")
	fs.StringVarP(&o.TicketFile, "file", "f", "", "ticket file name")
	fs.BoolVarP(&o.NoColor, "no-color", "c", false, "disable color output")
	fs.BoolVarP(&o.LastOnly, "last-only", "l", false, "last draw only")
	fs.BoolVarP(&o.WinnersOnly, "winners-only", "w", false, "show winners only")
	fs.BoolVarP(&o.SendMail, "send-mail", "m", false, "send results via email")
	fs.StringSliceVar(&o.MailTo, "to", nil, "mail recipient `address[,address...]`")
	fs.StringVar(&o.MailFrom, "from", "", "mail sender `address`")
	fs.StringVar(&o.MailServer, "server", "", "mail `server` (host or host:port)")
	fs.BoolVar(&o.Slack, "slack", false, "post results to the configured Slack webhook")
	fs.BoolVarP(&o.QuickPick, "quick-pick", "q", false, "generate quick pick")
	fs.StringVar(&o.SaveFile, "save", "", "write the quick pick to a ticket `file`")
	fs.StringVarP(&o.Numbers, "numbers", "n", "", "white ball numbers (5) `num,num,...`")
	fs.StringVarP(&o.MegaBall, "megaball", "p", "", "mega ball `number`")
	fs.BoolVarP(&o.Megaplier, "megaplier", "x", false, "megaplier option")
	fs.StringVarP(&o.Draws, "draws", "d", "", "`number` of draws")
	fs.StringVarP(&o.Purchased, "purchased", "t", "", "ticket purchase date `YYYY-MM-DD`")
	fs.StringVar(&o.Watch, "watch", "", "re-check on a cron `schedule` until interrupted")
	fs.Lookup("watch").NoOptDefVal = WatchFromConfig
	fs.IntVar(&o.History, "history", 0, "list the last `n` archived checks")
	fs.Lookup("history").NoOptDefVal = strconv.Itoa(defaultHistory)
	fs.BoolVar(&o.Offline, "offline", false, "check against archived drawings instead of the results feed")
	fs.BoolVar(&o.Verbose, "verbose", false, "debug logging")
	fs.StringVar(&o.ConfigPath, "config", "", "config file `path`")
	fs.BoolVarP(&o.Version, "version", "v", false, "show version info")
	return fs
}

// Parse reads args (without the program name).
func Parse(args []string) (Options, error) {
	var o Options
	fs := newFlagSet(&o)
	if err := fs.Parse(args); err != nil {
		return Options{}, &UsageError{Err: err}
	}
	if fs.NArg() > 0 {
		return Options{}, &UsageError{Err: fmt.Errorf("unexpected argument %q", fs.Arg(0))}
	}
	if o.SaveFile != "" && !o.QuickPick {
		return Options{}, &UsageError{Err: errors.New("--save requires --quick-pick")}
	}
	if o.History < 0 {
		return Options{}, &UsageError{Err: fmt.Errorf("--history must be positive, got %d", o.History)}
	}
	if o.TicketFile != "" && o.HasTicketFlags() {
		return Options{}, &UsageError{Err: errors.New("--file cannot be combined with --numbers, --megaball or --purchased")}
	}

	to := o.MailTo[:0]
	for _, addr := range o.MailTo {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	o.MailTo = to
	if len(o.MailTo) == 0 {
		o.MailTo = nil
	}
	return o, nil
}

// Usage returns the help text.
func Usage() string {
	var b strings.Builder
	b.WriteString("usage: yellowball [flags]\n\n")
	b.WriteString("A Mega Millions ticket checker and notifier.\n\n")
	b.WriteString("flags:\n")
	b.WriteString(newFlagSet(&Options{}).FlagUsages())
	return b.String()
}
