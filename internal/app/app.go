package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"yellowball/internal/cli"
	"yellowball/internal/config"
	"yellowball/internal/evaluate"
	"yellowball/internal/feed"
	"yellowball/internal/httpx"
	"yellowball/internal/logging"
	"yellowball/internal/lottery"
	"yellowball/internal/notify/mail"
	"yellowball/internal/notify/slack"
	"yellowball/internal/report"
	"yellowball/internal/schedule"
	"yellowball/internal/storage/sqlite"
	"yellowball/internal/ticketfile"
)

const (
	appName    = "yellowball"
	appVersion = "1.0"

	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// runner holds everything one invocation needs. Nothing in it changes after
// Main has built it.
type runner struct {
	opts   cli.Options
	cfg    config.Config
	stdout io.Writer
	color  bool

	mailFrom string
	mailTo   []string
	sender   mail.Sender

	feed  feed.Client
	slack slack.Notifier
	db    *sql.DB

	timeout time.Duration
	now     func() time.Time
}

// Main runs yellowball with args (without the program name) and returns the
// process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n\n%s", err, cli.Usage())
		return exitUsage
	}
	if opts.Help {
		fmt.Fprint(stdout, cli.Usage())
		return exitOK
	}
	if opts.Version {
		fmt.Fprintf(stdout, "%s %s\n", appName, appVersion)
		return exitOK
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fail(stderr, fmt.Errorf("config: %w", err))
	}
	logging.Setup(stderr, cfg.Level, opts.Verbose)
	timeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Debugf("Config loaded. ResultsURL=%s Timezone=%s ExternalHTTPTimeout=%s History=%t Mail=%t Slack=%t",
		cfg.ResultsURL, cfg.Location, timeout, cfg.HistoryEnabled(), cfg.MailConfigured(), cfg.SlackConfigured())

	r := &runner{
		opts:     opts,
		cfg:      cfg,
		stdout:   stdout,
		mailFrom: firstNonEmpty(opts.MailFrom, cfg.MailFrom),
		mailTo:   opts.MailTo,
		sender: mail.Sender{
			Server:   firstNonEmpty(opts.MailServer, cfg.MailServer),
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,

			InsecureSkipVerify: cfg.MailInsecureSkipVerify,
		},
		feed:    feed.NewHTTPClient(cfg.ResultsURL, httpx.Client()),
		slack:   slack.Notifier{WebhookURL: cfg.SlackWebhookURL, HTTPClient: httpx.Client()},
		timeout: timeout,
		now:     time.Now,
	}
	if len(r.mailTo) == 0 {
		r.mailTo = cfg.MailTo
	}
	if f, ok := stdout.(*os.File); ok {
		r.color = report.ColorEnabled(f, opts.NoColor || cfg.NoColor)
		if r.color {
			r.stdout = report.Writer(f)
		}
	}

	if opts.SendMail {
		if err := mail.CheckAddresses(r.mailFrom, r.mailTo); err != nil {
			return fail(stderr, err)
		}
		r.color = false
	}
	if opts.Slack && !cfg.SlackConfigured() {
		return fail(stderr, slack.ErrNoWebhook)
	}

	if opts.QuickPick {
		return exitCode(stderr, r.quickPick())
	}

	if cfg.HistoryEnabled() {
		db, err := sqlite.InitDB(ticketfile.ExpandPath(cfg.HistoryDBPath))
		if err != nil {
			log.Errorf("Failed to init history database: %v", err)
		} else {
			log.Debugf("History database at %s", cfg.HistoryDBPath)
			r.db = db
			defer db.Close()
		}
	}
	if (opts.History > 0 || opts.Offline) && r.db == nil {
		return fail(stderr, errNoHistory)
	}
	if opts.History > 0 {
		return exitCode(stderr, r.listHistory(opts.History))
	}

	ticket, err := r.ticket()
	if err != nil {
		var ue *cli.UsageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "ERROR: %v\n\n%s", err, cli.Usage())
			return exitUsage
		}
		return fail(stderr, err)
	}
	if opts.Offline {
		r.feed = archiveFeed{db: r.db}
	}

	if opts.Watch != "" {
		return exitCode(stderr, r.watch(ticket))
	}
	return exitCode(stderr, r.check(context.Background(), ticket))
}

// ticket builds the ticket from --file, the ticket flags or the configured
// ticket_file, in that order.
func (r *runner) ticket() (lottery.Ticket, error) {
	switch {
	case r.opts.TicketFile != "":
		return ticketfile.Load(r.opts.TicketFile)
	case r.opts.CompleteTicketFlags():
		return lottery.NewTicket(r.opts.TicketInput())
	case r.opts.HasTicketFlags():
		return lottery.Ticket{}, &cli.UsageError{Err: errors.New("a ticket needs --numbers, --megaball and --purchased")}
	case r.cfg.TicketFile != "":
		return ticketfile.Load(r.cfg.TicketFile)
	default:
		return lottery.Ticket{}, &cli.UsageError{Err: errors.New("no ticket given")}
	}
}

func (r *runner) quickPick() error {
	pick := lottery.QuickPick(rand.New(rand.NewSource(time.Now().UnixNano())))
	fmt.Fprint(r.stdout, pick.String())
	if r.opts.SaveFile == "" {
		return nil
	}

	purchased := r.opts.Purchased
	if purchased == "" {
		purchased = r.now().In(r.cfg.Location).Format(lottery.DateLayout)
	}
	t, err := lottery.NewTicket(lottery.TicketInput{
		Numbers:   lottery.FormatNumbers(pick.Numbers, ","),
		MegaBall:  strconv.Itoa(pick.MegaBall),
		Megaplier: r.opts.Megaplier,
		Draws:     r.opts.Draws,
		Purchased: purchased,
	})
	if err != nil {
		return err
	}
	if err := ticketfile.Write(r.opts.SaveFile, t); err != nil {
		return err
	}
	fmt.Fprintf(r.stdout, "Saved to %s\n", ticketfile.ExpandPath(r.opts.SaveFile))
	return nil
}

// check fetches, evaluates and delivers one report for t.
func (r *runner) check(ctx context.Context, t lottery.Ticket) error {
	today := lottery.DayOf(r.now().In(r.cfg.Location))

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	history, err := r.feed.Fetch(fetchCtx, t.Purchased, today)
	cancel()
	if err != nil {
		return err
	}

	s := evaluate.Evaluate(t, history)
	r.archive(history, s)

	return r.deliver(ctx, s)
}

func (r *runner) archive(history []lottery.DrawResult, s evaluate.Summary) {
	if r.db == nil {
		return
	}
	if !r.opts.Offline {
		if n, err := sqlite.UpsertDraws(r.db, history); err != nil {
			log.Errorf("Failed to archive drawings: %v", err)
		} else {
			log.Debugf("Archived %d drawings", n)
		}
	}
	id, err := sqlite.InsertCheck(r.db, s, r.now())
	if err != nil {
		log.Errorf("Failed to archive check: %v", err)
		return
	}
	log.Debugf("Archived check %s", id)
}

// deliver sends the report to each requested channel. Without --send-mail or
// --slack it goes to stdout. A failed channel falls back to stdout.
func (r *runner) deliver(ctx context.Context, s evaluate.Summary) error {
	opts := report.Options{
		Color:       r.color,
		LastOnly:    r.opts.LastOnly,
		WinnersOnly: r.opts.WinnersOnly,
	}
	body := report.Render(s, opts)
	plain := report.StripColor(body)

	if !r.opts.SendMail && !r.opts.Slack {
		fmt.Fprint(r.stdout, body)
		r.notifySlack(ctx, plain)
		return nil
	}

	var errs []error
	printed := false
	if r.opts.SendMail {
		if err := r.sendMail(ctx, plain); err != nil {
			errs = append(errs, err)
			fmt.Fprint(r.stdout, plain)
			printed = true
		}
	}
	if !r.opts.Slack {
		r.notifySlack(ctx, plain)
		return errors.Join(errs...)
	}
	if err := r.postSlack(ctx, plain); err != nil {
		errs = append(errs, err)
		if !printed {
			fmt.Fprint(r.stdout, plain)
		}
	}
	return errors.Join(errs...)
}

func (r *runner) sendMail(ctx context.Context, body string) error {
	subject := r.cfg.MailSubject
	if subject == "" {
		subject = report.DefaultSubject
	}
	msg := report.BuildMessage(report.Envelope{
		From:    r.mailFrom,
		To:      r.mailTo,
		Subject: subject,
		Date:    r.now(),
	}, body)

	mailCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.sender.Send(mailCtx, r.mailFrom, r.mailTo, msg); err != nil {
		return err
	}
	log.Infof("Mailed results to %d recipient(s)", len(r.mailTo))
	return nil
}

// notifySlack posts to a configured webhook that --slack did not ask for.
// Failures are only logged.
func (r *runner) notifySlack(ctx context.Context, body string) {
	if !r.cfg.SlackConfigured() {
		return
	}
	if err := r.postSlack(ctx, body); err != nil {
		log.Warnf("Slack post failed: %v", err)
	}
}

func (r *runner) postSlack(ctx context.Context, body string) error {
	subject := r.cfg.MailSubject
	if subject == "" {
		subject = report.DefaultSubject
	}
	postCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.slack.Post(postCtx, subject, body); err != nil {
		return err
	}
	log.Debugf("Posted results to Slack")
	return nil
}

// watch re-runs check on the configured schedule until SIGINT or SIGTERM.
func (r *runner) watch(t lottery.Ticket) error {
	spec := r.opts.Watch
	if spec == cli.WatchFromConfig {
		spec = r.cfg.CheckSchedule
	}
	if spec == "" {
		return &cli.UsageError{Err: errors.New("--watch needs a schedule or check_schedule in the config")}
	}
	sched, err := schedule.Parse(spec)
	if err != nil {
		return &cli.UsageError{Err: err}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Watching ticket %s on schedule %q", t.Key(), spec)
	if err := r.check(ctx, t); err != nil {
		log.Errorf("Check error: %v", err)
	}
	err = schedule.Run(ctx, sched, r.cfg.Location, func(ctx context.Context) error {
		return r.check(ctx, t)
	})
	if errors.Is(err, context.Canceled) {
		log.Infof("Watch stopped")
		return nil
	}
	return err
}

// exitCode reports err on stderr and maps it to a process exit code.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	var ue *cli.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "ERROR: %v\n\n%s", err, cli.Usage())
		return exitUsage
	}
	return fail(stderr, err)
}

func fail(stderr io.Writer, err error) int {
	var (
		ve *lottery.ValidationError
		re *feed.RetrievalError
		me *mail.MailError
	)
	switch {
	case errors.As(err, &ve):
		log.Debugf("Invalid fields: %v", ve.Fields())
	case errors.As(err, &re):
		log.Debugf("Retrieval failed for %s", re.URL)
	case errors.As(err, &me):
		log.Debugf("Mail failed via %s", me.Server)
	}
	fmt.Fprintf(stderr, "ERROR: %v\n", err)
	return exitError
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
