// Package form validates user input before anything is sent to the backend.
package form

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"booking-client/internal/model"
)

// Errors maps a field name to its message. Empty means valid.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Err returns nil for an empty set so callers can use the usual err check.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

const minPassword = 6

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Auth struct {
	Mode     Mode
	Name     string
	Email    string
	Password string
}

func (a Auth) Validate() Errors {
	e := Errors{}
	if a.Mode == ModeRegister && strings.TrimSpace(a.Name) == "" {
		e["name"] = "Name is required"
	}
	if !reEmail.MatchString(a.Email) {
		e["email"] = "Valid email required"
	}
	if len(a.Password) < minPassword {
		e["password"] = "Min 6 characters"
	}
	return e
}

func (a Auth) Credentials() model.Credentials {
	c := model.Credentials{Email: a.Email, Password: a.Password}
	if a.Mode == ModeRegister {
		c.Name = a.Name
	}
	return c
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is the booking form as typed: date as YYYY-MM-DD, time as HH:MM,
// both in now's zone.
type Booking struct {
	Service string
	Date    string
	Time    string
}

// Validate checks the form against now and returns the combined instant.
// The date may be today even if the time has already passed; the backend
// has the final word on that.
func (b Booking) Validate(now time.Time) (time.Time, Errors) {
	e := Errors{}
	if strings.TrimSpace(b.Service) == "" {
		e["service"] = "Service name is required"
	}

	loc := now.Location()
	var day time.Time
	if b.Date == "" {
		e["date"] = "Date is required"
	} else if d, err := time.ParseInLocation(DateLayout, b.Date, loc); err != nil {
		e["date"] = "Date must be YYYY-MM-DD"
	} else {
		day = d
		y, m, dd := now.Date()
		if d.Before(time.Date(y, m, dd, 0, 0, 0, 0, loc)) {
			e["date"] = "Date must be today or later"
		}
	}

	var clock time.Time
	if b.Time == "" {
		e["time"] = "Time is required"
	} else if c, err := time.Parse(TimeLayout, b.Time); err != nil {
		e["time"] = "Time must be HH:MM"
	} else {
		clock = c
	}

	if len(e) > 0 {
		return time.Time{}, e
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	return at, e
}

// Request builds the backend body for a validated instant.
func (b Booking) Request(at time.Time) model.NewAppointment {
	return model.NewAppointment{
		Service:         strings.TrimSpace(b.Service),
		AppointmentTime: at.UTC().Format(time.RFC3339),
	}
}
