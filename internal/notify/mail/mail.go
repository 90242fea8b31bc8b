// Package mail delivers rendered reports over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultServer = "localhost"
	defaultPort   = "25"
)

var ErrMissingAddress = errors.New("sending mail requires sender and recipient addresses (--to and --from)")

// MailError reports a failed or impossible delivery.
type MailError struct {
	Server string
	Err    error
}

func (e *MailError) Error() string {
	if e.Server == "" {
		return fmt.Sprintf("mail: %v", e.Err)
	}
	return fmt.Sprintf("mail via %s: %v", e.Server, e.Err)
}

func (e *MailError) Unwrap() error {
	return e.Err
}

// Sender talks to a single SMTP server. Username and Password are optional;
// when set, PLAIN auth is used after STARTTLS if the server offers it.
type Sender struct {
	Server   string
	Username string
	Password string
	// InsecureSkipVerify accepts any STARTTLS certificate. Certificates from
	// loopback servers are never verified.
	InsecureSkipVerify bool
}

func tlsConfig(host string, insecure bool) *tls.Config {
	return &tls.Config{ServerName: host, InsecureSkipVerify: insecure || isLoopback(host)}
}

// isLoopback reports whether host names the local delivery agent, which
// commonly offers STARTTLS with a self-signed certificate.
func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// ServerAddr returns host:port for server, defaulting to localhost:25.
func ServerAddr(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		server = DefaultServer
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), defaultPort)
}

// CheckAddresses validates that a delivery has both ends set.
func CheckAddresses(from string, to []string) error {
	if strings.TrimSpace(from) == "" || len(to) == 0 {
		return &MailError{Err: ErrMissingAddress}
	}
	return nil
}

// Send delivers msg to every address in to. The context bounds the dial and
// the whole SMTP conversation.
func (s Sender) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if err := CheckAddresses(from, to); err != nil {
		return err
	}
	addr := ServerAddr(s.Server)
	fail := func(err error) error {
		return &MailError{Server: addr, Err: err}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fail(fmt.Errorf("connect: %w", err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fail(fmt.Errorf("greeting: %w", err))
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsConfig(host, s.InsecureSkipVerify)); err != nil {
			return fail(fmt.Errorf("starttls: %w", err))
		}
	}
	if s.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.Username, s.Password, host)); err != nil {
			return fail(fmt.Errorf("auth: %w", err))
		}
	}

	if err := c.Mail(from); err != nil {
		return fail(fmt.Errorf("MAIL FROM: %w", err))
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fail(fmt.Errorf("RCPT TO %s: %w", rcpt, err))
		}
	}
	w, err := c.Data()
	if err != nil {
		return fail(fmt.Errorf("DATA: %w", err))
	}
	if _, err := w.Write(msg); err != nil {
		return fail(fmt.Errorf("writing message: %w", err))
	}
	if err := w.Close(); err != nil {
		return fail(fmt.Errorf("finishing message: %w", err))
	}
	log.Debugf("mail sent via %s to %d recipients", addr, len(to))
	if err := c.Quit(); err != nil {
		log.Debugf("mail quit: %v", err)
	}
	return nil
}
