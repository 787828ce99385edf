package model

import "time"

// backends disagree on zone suffixes; naive timestamps are read as local time
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, l := range layouts {
		if l == time.RFC3339Nano {
			if t, err := time.Parse(l, s); err == nil {
				return t
			}
			continue
		}
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func Normalize(r Record) Appointment {
	return Appointment{
		ID:        r.Key(),
		Service:   r.Service,
		Datetime:  r.Time(),
		CreatedAt: ParseTime(r.CreatedAt),
		UserID:    r.UserID,
	}
}

func NormalizeAll(rs []Record) []Appointment {
	out := make([]Appointment, 0, len(rs))
	for _, r := range rs {
		out = append(out, Normalize(r))
	}
	return out
}
