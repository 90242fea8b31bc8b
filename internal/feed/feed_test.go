package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleFeed = `[
  {"draw_date":"2024-01-09T00:00:00.000","winning_numbers":"06 13 19 34 41","mega_ball":"23","multiplier":"03"},
  {"draw_date":"2024-01-05T00:00:00.000","winning_numbers":"01 02 03 04 05","mega_ball":"10"},
  {"draw_date":"2024-01-02T00:00:00.000","winning_numbers":"01 02 03","mega_ball":"10","multiplier":"02"},
  {"draw_date":"2023-12-29T00:00:00.000","winning_numbers":"07 08 09 10 11","multiplier":"04"},
  {"winning_numbers":"07 08 09 10 11","mega_ball":"4"}
]`

func TestParseDraws(t *testing.T) {
	draws, err := ParseDraws([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("ParseDraws failed: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 usable rows, got %d", len(draws))
	}
	first := draws[0]
	if first.DateString() != "2024-01-09" || first.Numbers != [5]int{6, 13, 19, 34, 41} || first.MegaBall != 23 || first.Multiplier != 3 {
		t.Fatalf("unexpected first draw: %+v", first)
	}
	if draws[1].Multiplier != 0 || draws[1].HasMultiplier() {
		t.Fatalf("missing multiplier should be 0, got %d", draws[1].Multiplier)
	}
}

func TestParseDrawsRejectsNonArray(t *testing.T) {
	if _, err := ParseDraws([]byte(`{"error":true}`)); err == nil {
		t.Fatal("expected error for object body")
	}
	if _, err := ParseDraws([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	draws, err := ParseDraws([]byte(`[]`))
	if err != nil || len(draws) != 0 {
		t.Fatalf("empty array should parse to no draws, got %v %v", draws, err)
	}
}

func TestHTTPClientFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("$where")
		if r.URL.Query().Get("$order") != "draw_date DESC" {
			t.Errorf("unexpected $order: %q", r.URL.Query().Get("$order"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/resource/5xaw-6ayf.json", srv.Client())
	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	draws, err := c.Fetch(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(draws))
	}
	want := "draw_date between '2024-01-02T00:00:00.000' and '2024-01-10T00:00:00.000'"
	if gotQuery != want {
		t.Fatalf("unexpected $where:\n got %q\nwant %q", gotQuery, want)
	}
}

func TestHTTPClientFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	c := NewHTTPClient(srv.URL, srv.Client())
	_, err := c.Fetch(context.Background(), time.Now(), time.Now())
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", re.Status)
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("expected body in error, got %q", err.Error())
	}

	srv.Close()
	_, err = c.Fetch(context.Background(), time.Now(), time.Now())
	if !errors.As(err, &re) || re.Status != 0 {
		t.Fatalf("expected transport RetrievalError, got %v", err)
	}
}

func TestHTTPClientFetchBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"query error"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, srv.Client()).Fetch(context.Background(), time.Now(), time.Now())
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
}
