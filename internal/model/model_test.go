package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeBackendRecord(t *testing.T) {
	var r Record
	body := `{"_id":"65f0","service":"Haircut","appointment_time":"2026-11-02T14:00:00Z","created_at":"2026-10-01T09:30:00Z","user_id":"u1","extra":"x"}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	a := Normalize(r)
	if a.ID != "65f0" {
		t.Errorf("id: got %q", a.ID)
	}
	if a.Service != "Haircut" || a.UserID != "u1" {
		t.Errorf("fields not carried: %+v", a)
	}
	want := time.Date(2026, 11, 2, 14, 0, 0, 0, time.UTC)
	if !a.Datetime.Equal(want) {
		t.Errorf("datetime: got %v want %v", a.Datetime, want)
	}
	if a.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
	if string(r.Raw) != body {
		t.Errorf("raw not kept: %s", r.Raw)
	}
}

func TestNormalizePrefersID(t *testing.T) {
	a := Normalize(Record{ID: "id-1", MongoID: "mongo-1"})
	if a.ID != "id-1" {
		t.Errorf("expected id to win over _id, got %q", a.ID)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	a := Normalize(Record{})
	if a.ID != "" || !a.Datetime.IsZero() || !a.CreatedAt.IsZero() {
		t.Errorf("expected zero values, got %+v", a)
	}
	if a.Upcoming(time.Now()) {
		t.Error("missing datetime must not be upcoming")
	}
}

func TestNormalizeAllNil(t *testing.T) {
	out := NormalizeAll(nil)
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", out)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2026-11-02T14:00:00Z", false},
		{"2026-11-02T14:00:00.123456+02:00", false},
		{"2026-11-02T14:00:00.123456", false},
		{"2026-11-02T14:00:00", false},
		{"2026-11-02T14:00", false},
		{"2026-11-02 14:00:00", false},
		{"2026-11-02", false},
		{"", true},
		{"next tuesday", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseTime(tt.in); got.IsZero() != tt.zero {
				t.Errorf("ParseTime(%q) = %v", tt.in, got)
			}
		})
	}
}

func TestUpcomingIsStrict(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(time.Second), StatusUpcoming},
		{now, StatusDone},
		{now.Add(-time.Hour), StatusDone},
	}
	for _, tt := range tests {
		if got := (Appointment{Datetime: tt.at}).Status(now); got != tt.want {
			t.Errorf("at %v: got %s want %s", tt.at, got, tt.want)
		}
	}
}

func TestUserHelpers(t *testing.T) {
	tests := []struct {
		user     *User
		initials string
		first    string
		role     string
	}{
		{&User{Name: "ada lovelace byron"}, "AL", "ada", RoleMember},
		{&User{Name: "Grace", Role: RoleAdmin}, "G", "Grace", RoleAdmin},
		{&User{Name: "  "}, "U", "", RoleMember},
		{nil, "U", "", RoleMember},
	}
	for _, tt := range tests {
		if got := tt.user.Initials(); got != tt.initials {
			t.Errorf("initials: got %q want %q", got, tt.initials)
		}
		if got := tt.user.FirstName(); got != tt.first {
			t.Errorf("first name: got %q want %q", got, tt.first)
		}
		if got := tt.user.EffectiveRole(); got != tt.role {
			t.Errorf("role: got %q want %q", got, tt.role)
		}
	}
}

func TestRecordLenientFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		key     string
		userID  string
		service string
	}{
		{"numeric id", `{"id":1,"service":"Haircut"}`, "1", "", "Haircut"},
		{"numeric user id", `{"_id":"a1","user_id":42}`, "a1", "42", ""},
		{"mongo oid", `{"_id":{"$oid":"65f0aa"},"user_id":"u1"}`, "65f0aa", "u1", ""},
		{"large number kept exact", `{"id":12345678901234567890}`, "12345678901234567890", "", ""},
		{"wrong types read as empty", `{"id":null,"user_id":true,"service":["x"]}`, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if r.Key() != tt.key || r.UserID != tt.userID || r.Service != tt.service {
				t.Errorf("got key=%q user=%q service=%q", r.Key(), r.UserID, r.Service)
			}
			if string(r.Raw) != tt.body {
				t.Errorf("raw not kept: %s", r.Raw)
			}
		})
	}
}

func TestRecordArrayWithNumericIDs(t *testing.T) {
	var recs []Record
	body := `[{"id":1,"appointment_time":"2026-11-02T14:00:00Z"},{"_id":"x2"}]`
	if err := json.Unmarshal([]byte(body), &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out := NormalizeAll(recs)
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "x2" || out[0].Datetime.IsZero() {
		t.Errorf("unexpected: %+v", out)
	}
}
