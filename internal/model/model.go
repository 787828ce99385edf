package model

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// EffectiveRole reads a missing role as member.
func (u *User) EffectiveRole() string {
	if u == nil || u.Role == "" {
		return RoleMember
	}
	return u.Role
}

func (u *User) IsAdmin() bool {
	return u.EffectiveRole() == RoleAdmin
}

// FirstName is the first word of the name, or "" when there is none.
func (u *User) FirstName() string {
	if u == nil {
		return ""
	}
	if f := strings.Fields(u.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Initials takes the first letter of each word, upper-cased, at most two.
func (u *User) Initials() string {
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return "U"
	}
	var b strings.Builder
	for _, w := range strings.Fields(u.Name) {
		r := []rune(w)
		b.WriteRune(r[0])
	}
	out := []rune(strings.ToUpper(b.String()))
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}

// Record is an appointment as the backend sends it.
type Record struct {
	ID              string `json:"id,omitempty"`
	MongoID         string `json:"_id,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	Service         string `json:"service"`
	AppointmentTime string `json:"appointment_time"`
	CreatedAt       string `json:"created_at,omitempty"`

	// raw body as received, searched by the admin table
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON never fails on a well-formed object: ids and other fields
// may arrive as strings, numbers or Mongo's {"$oid": ...}, and anything
// else reads as empty.
func (r *Record) UnmarshalJSON(b []byte) error {
	var p struct {
		ID              json.RawMessage `json:"id"`
		MongoID         json.RawMessage `json:"_id"`
		UserID          json.RawMessage `json:"user_id"`
		Service         json.RawMessage `json:"service"`
		AppointmentTime json.RawMessage `json:"appointment_time"`
		CreatedAt       json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Record{
		ID:              scalar(p.ID),
		MongoID:         scalar(p.MongoID),
		UserID:          scalar(p.UserID),
		Service:         scalar(p.Service),
		AppointmentTime: scalar(p.AppointmentTime),
		CreatedAt:       scalar(p.CreatedAt),
		Raw:             append(json.RawMessage(nil), b...),
	}
	return nil
}

// scalar renders a JSON string or number as text.
func scalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil {
		return oid.OID
	}
	return ""
}

// Key is the record's identifier whichever field the backend used.
func (r Record) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.MongoID
}

// Time is the parsed appointment_time, zero when missing or unparsable.
func (r Record) Time() time.Time {
	return ParseTime(r.AppointmentTime)
}

// Appointment is the client-side view of a booking.
type Appointment struct {
	ID        string
	Service   string
	Datetime  time.Time
	CreatedAt time.Time
	UserID    string
}

// Upcoming reports whether the appointment is strictly after now.
// A missing datetime is never upcoming.
func (a Appointment) Upcoming(now time.Time) bool {
	return !a.Datetime.IsZero() && a.Datetime.After(now)
}

// Status is "upcoming" or "done".
func (a Appointment) Status(now time.Time) string {
	if a.Upcoming(now) {
		return StatusUpcoming
	}
	return StatusDone
}

const (
	StatusUpcoming = "upcoming"
	StatusDone     = "done"
)

// request body for POST /appointments/
type NewAppointment struct {
	Service         string `json:"service"`
	AppointmentTime string `json:"appointment_time"`
}

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
