package report

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const DefaultSubject = "Mega Millions Results"

// Envelope carries the header fields of an outgoing report.
type Envelope struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
}

// BuildMessage renders body as an RFC 5322 message with plain text and
// HTML alternatives. Colour sequences are stripped from both parts.
func BuildMessage(env Envelope, body string) []byte {
	const boundary = "yellowball-alt"
	subject := env.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	date := env.Date
	if date.IsZero() {
		date = time.Now()
	}
	headers := []string{
		fmt.Sprintf("From: %s", env.From),
		fmt.Sprintf("To: %s", strings.Join(env.To, ", ")),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Date: %s", date.Format(time.RFC1123Z)),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary),
	}
	plain := normalizeCRLF(strings.TrimLeft(StripColor(body), "\n"))

	var out strings.Builder
	out.WriteString(strings.Join(headers, "\r\n"))
	out.WriteString("\r\n\r\n")
	out.WriteString("--" + boundary + "\r\n")
	out.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	out.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	out.WriteString(plain)
	if !strings.HasSuffix(plain, "\r\n") {
		out.WriteString("\r\n")
	}
	out.WriteString("\r\n--" + boundary + "\r\n")
	out.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	out.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	out.WriteString(bodyToHTML(plain))
	out.WriteString("\r\n--" + boundary + "--\r\n")
	return []byte(out.String())
}

func normalizeCRLF(s string) string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", "\r\n")
	return normalized
}

func bodyToHTML(body string) string {
	escaped := html.EscapeString(strings.ReplaceAll(body, "\r\n", "\n"))
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\r\n")
	return `<html><body style="font-family: Menlo, Consolas, monospace; font-size: 11pt; color: #1f1f1f; line-height: 1.35;">` + escaped + `</body></html>`
}
