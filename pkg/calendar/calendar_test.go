package calendar

import (
	"net/url"
	"strings"
	"testing"

	"docdecode-be/internal/entity"
)

func parseQuery(t *testing.T, link string) url.Values {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	if u.Host != "calendar.google.com" {
		t.Fatalf("host = %q", u.Host)
	}
	return u.Query()
}

func TestEventURLTimed(t *testing.T) {
	link := EventURL(entity.Reminder{
		Title:       "Follow-up appointment",
		Date:        "2026-09-12T14:30:00Z",
		Description: "Bring discharge papers",
	})

	q := parseQuery(t, link)
	if q.Get("action") != "TEMPLATE" {
		t.Errorf("action = %q", q.Get("action"))
	}
	if q.Get("text") != "Follow-up appointment" {
		t.Errorf("text = %q", q.Get("text"))
	}
	if q.Get("details") != "Bring discharge papers" {
		t.Errorf("details = %q", q.Get("details"))
	}
	if q.Get("dates") != "20260912T143000Z/20260912T153000Z" {
		t.Errorf("dates = %q, want one hour slot", q.Get("dates"))
	}
}

func TestEventURLDateOnly(t *testing.T) {
	link := EventURL(entity.Reminder{
		Title: "Stop antibiotics",
		Date:  "2026-09-20",
	})

	q := parseQuery(t, link)
	if q.Get("dates") != "20260920/20260921" {
		t.Errorf("dates = %q, want all-day span", q.Get("dates"))
	}
	if q.Has("details") {
		t.Error("empty description must be omitted")
	}
}

func TestEventURLUnparseableDateFallsBackToAllDay(t *testing.T) {
	link := EventURL(entity.Reminder{
		Title: "Check wound",
		Date:  "in two weeks",
	})

	q := parseQuery(t, link)
	dates := q.Get("dates")
	parts := strings.Split(dates, "/")
	if len(parts) != 2 || len(parts[0]) != 8 || len(parts[1]) != 8 {
		t.Errorf("dates = %q, want all-day YYYYMMDD/YYYYMMDD", dates)
	}
}
