// Package slack posts rendered reports to a Slack incoming webhook.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
)

var ErrNoWebhook = errors.New("slack webhook url is not configured")

type Notifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

// BuildMessage wraps the colourless report in a code block so column
// alignment survives Slack's formatting.
func BuildMessage(title, body string) *slack.WebhookMessage {
	text := strings.Trim(body, "\n")
	return &slack.WebhookMessage{
		Text: fmt.Sprintf("*%s*\n```\n%s\n```", title, text),
	}
}

func (n Notifier) Post(ctx context.Context, title, body string) error {
	if strings.TrimSpace(n.WebhookURL) == "" {
		return ErrNoWebhook
	}
	client := n.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.WebhookURL, client, BuildMessage(title, body)); err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	return nil
}
