// Package pages builds the view models behind each screen. Everything here
// is a pure function of the session data and the current time.
package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"booking-client/internal/model"
)

type Page string

const (
	Dashboard    Page = "dashboard"
	Appointments Page = "appointments"
	Book         Page = "book"
	Profile      Page = "profile"
	Admin        Page = "admin"
)

func ParsePage(s string) (Page, error) {
	switch p := Page(strings.ToLower(s)); p {
	case Dashboard, Appointments, Book, Profile, Admin:
		return p, nil
	}
	return "", fmt.Errorf("unknown page %q", s)
}

type Filter string

const (
	FilterAll      Filter = "all"
	FilterUpcoming Filter = "upcoming"
	FilterDone     Filter = "done"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUpcoming, FilterDone:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, upcoming or done)", s)
}

type Stats struct {
	Total    int
	Upcoming int
	Past     int
}

func CountStats(appts []model.Appointment, now time.Time) Stats {
	s := Stats{Total: len(appts)}
	for _, a := range appts {
		if a.Upcoming(now) {
			s.Upcoming++
		}
	}
	s.Past = s.Total - s.Upcoming
	return s
}

// FilterAppointments keeps appointments matching the status filter and a
// case-insensitive substring of the service name. Order is preserved.
func FilterAppointments(appts []model.Appointment, f Filter, search string, now time.Time) []model.Appointment {
	q := strings.ToLower(search)
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if f != FilterAll && f != "" && a.Status(now) != string(f) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Service), q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SearchRecords matches q against the lowercased compact JSON of each
// record, so ids, user ids and timestamps are all searchable.
func SearchRecords(recs []model.Record, q string) []model.Record {
	if q == "" {
		return append([]model.Record(nil), recs...)
	}
	q = strings.ToLower(q)
	var out []model.Record
	for _, r := range recs {
		if strings.Contains(strings.ToLower(recordJSON(r)), q) {
			out = append(out, r)
		}
	}
	return out
}

func recordJSON(r model.Record) string {
	if len(r.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.Raw); err == nil {
			return buf.String()
		}
		return string(r.Raw)
	}
	b, _ := json.Marshal(r)
	return string(b)
}

const missing = "—"

// FormatDate renders like "Oct 19, 2026", or a dash for a zero time.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return missing
	}
	return t.In(loc).Format("Jan 2, 2006")
}

// FormatTime renders like "02:30 PM", or "" for a zero time.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("03:04 PM")
}

func orDash(s string) string {
	if s == "" {
		return missing
	}
	return s
}
