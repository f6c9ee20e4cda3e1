package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"docdecode-be/internal/entity"
)

const renderBase = "https://calendar.google.com/calendar/render"

// EventURL builds a prefilled Google Calendar link for a reminder. Timed
// dates get a one hour slot; date-only or unparseable dates fall back to an
// all-day event.
func EventURL(r entity.Reminder) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", r.Title)
	if r.Description != "" {
		q.Set("details", r.Description)
	}
	q.Set("dates", datesParam(r.Date))

	return renderBase + "?" + q.Encode()
}

func datesParam(raw string) string {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return allDay(t)
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			start := t.UTC()
			end := start.Add(time.Hour)
			return fmt.Sprintf("%s/%s", start.Format("20060102T150405Z"), end.Format("20060102T150405Z"))
		}
	}

	// Model dates are not always well formed; an all-day event today still
	// gives the user something to edit.
	return allDay(time.Now())
}

func allDay(t time.Time) string {
	start := t.Format("20060102")
	end := t.AddDate(0, 0, 1).Format("20060102")
	return start + "/" + end
}
