// Package httpx holds the HTTP client shared by the results feed and the
// Slack webhook.
package httpx

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultExternalHTTPTimeout = 30 * time.Second

// UserAgent is sent on every outbound request.
const UserAgent = "yellowball/1.0"

var externalHTTPClient = &http.Client{
	Timeout:   defaultExternalHTTPTimeout,
	Transport: &userAgentTransport{base: http.DefaultTransport},
}

// ConfigureExternalHTTPClient sets the timeout used for every outbound call
// and returns the value applied.
func ConfigureExternalHTTPClient(timeoutSeconds int) time.Duration {
	timeout := defaultExternalHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	externalHTTPClient.Timeout = timeout
	return timeout
}

func Client() *http.Client {
	return externalHTTPClient
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Debugf("%s %s failed after %s: %v", req.Method, req.URL.Host, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	log.Debugf("%s %s -> %d in %s", req.Method, req.URL.Host, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}
