// Package feed retrieves Mega Millions results from the NY Open Data
// (Socrata) endpoint.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"yellowball/internal/lottery"
)

const (
	DefaultResultsURL = "https://data.ny.gov/resource/5xaw-6ayf.json"

	midnight = "T00:00:00.000"
	rowLimit = 5000
)

// RetrievalError reports a failure to obtain drawing results.
type RetrievalError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("could not retrieve results: %s returned %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("could not retrieve results: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Client fetches drawings held between from and to, inclusive.
type Client interface {
	Fetch(ctx context.Context, from, to time.Time) ([]lottery.DrawResult, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultResultsURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *HTTPClient) requestURL(from, to time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse results url: %w", err)
	}
	q := u.Query()
	q.Set("$where", fmt.Sprintf("draw_date between '%s' and '%s'",
		from.Format(lottery.DateLayout)+midnight, to.Format(lottery.DateLayout)+midnight))
	q.Set("$order", "draw_date DESC")
	q.Set("$limit", strconv.Itoa(rowLimit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch returns drawings newest first, as served by the feed.
func (c *HTTPClient) Fetch(ctx context.Context, from, to time.Time) ([]lottery.DrawResult, error) {
	reqURL, err := c.requestURL(from, to)
	if err != nil {
		return nil, &RetrievalError{URL: c.baseURL, Err: err}
	}
	log.Debugf("results fetch range %s - %s", from.Format(lottery.DateLayout), to.Format(lottery.DateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RetrievalError{URL: c.baseURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetrievalError{URL: c.baseURL, Err: fmt.Errorf("fetching results: %w", err)}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &RetrievalError{URL: c.baseURL, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RetrievalError{URL: c.baseURL, Status: resp.StatusCode, Err: fmt.Errorf("%s", truncate(string(body), 200))}
	}

	draws, err := ParseDraws(body)
	if err != nil {
		return nil, &RetrievalError{URL: c.baseURL, Status: resp.StatusCode, Err: err}
	}
	log.Debugf("results fetched=%d", len(draws))
	return draws, nil
}

// ParseDraws decodes a Socrata JSON array into drawings. Rows missing a
// date, numbers or megaball are skipped; a missing multiplier is kept as 0.
func ParseDraws(body []byte) ([]lottery.DrawResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parsing response: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("parsing response: expected an array of drawings")
	}

	var draws []lottery.DrawResult
	root.ForEach(func(_, row gjson.Result) bool {
		d, err := parseRow(row)
		if err != nil {
			log.Debugf("results skipped row %s: %v", truncate(row.Raw, 80), err)
			return true
		}
		draws = append(draws, d)
		return true
	})
	return draws, nil
}

func parseRow(row gjson.Result) (lottery.DrawResult, error) {
	var d lottery.DrawResult

	rawDate := row.Get("draw_date").String()
	if len(rawDate) < len(lottery.DateLayout) {
		return d, fmt.Errorf("missing draw_date")
	}
	date, err := time.Parse(lottery.DateLayout, rawDate[:len(lottery.DateLayout)])
	if err != nil {
		return d, fmt.Errorf("bad draw_date %q", rawDate)
	}
	d.Date = date

	fields := strings.Fields(row.Get("winning_numbers").String())
	if len(fields) != lottery.WhiteBallCount {
		return d, fmt.Errorf("expected %d winning numbers, got %d", lottery.WhiteBallCount, len(fields))
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return d, fmt.Errorf("bad winning number %q", f)
		}
		d.Numbers[i] = n
	}

	mb := row.Get("mega_ball")
	if !mb.Exists() {
		return d, fmt.Errorf("missing mega_ball")
	}
	d.MegaBall, err = strconv.Atoi(strings.TrimSpace(mb.String()))
	if err != nil {
		return d, fmt.Errorf("bad mega_ball %q", mb.String())
	}

	if mult := row.Get("multiplier"); mult.Exists() {
		if n, err := strconv.Atoi(strings.TrimSpace(mult.String())); err == nil && n > 0 {
			d.Multiplier = n
		}
	}
	return d, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
