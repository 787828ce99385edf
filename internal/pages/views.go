package pages

import (
	"time"

	"booking-client/internal/model"
)

const dashboardUpcoming = 5

type DashboardView struct {
	Greeting string
	Today    string
	Stats    Stats
	Upcoming []model.Appointment
}

func Greeting(u *model.User, now time.Time) string {
	part := "evening"
	switch h := now.Hour(); {
	case h < 12:
		part = "morning"
	case h < 17:
		part = "afternoon"
	}
	name := u.FirstName()
	if name == "" {
		name = "there"
	}
	return "Good " + part + ", " + name
}

func BuildDashboard(u *model.User, appts []model.Appointment, now time.Time) DashboardView {
	up := FilterAppointments(appts, FilterUpcoming, "", now)
	if len(up) > dashboardUpcoming {
		up = up[:dashboardUpcoming]
	}
	return DashboardView{
		Greeting: Greeting(u, now),
		Today:    now.Format("Monday, January 2, 2006"),
		Stats:    CountStats(appts, now),
		Upcoming: up,
	}
}

type AppointmentRow struct {
	ID          string
	Date        string
	Time        string
	Service     string
	BookedOn    string
	Status      string
	Cancellable bool
}

type AppointmentsView struct {
	Filter Filter
	Search string
	Rows   []AppointmentRow
}

func (v AppointmentsView) Empty() bool { return len(v.Rows) == 0 }

func BuildAppointments(appts []model.Appointment, f Filter, search string, now time.Time) AppointmentsView {
	loc := now.Location()
	v := AppointmentsView{Filter: f, Search: search}
	for _, a := range FilterAppointments(appts, f, search, now) {
		up := a.Upcoming(now)
		v.Rows = append(v.Rows, AppointmentRow{
			ID:          a.ID,
			Date:        FormatDate(a.Datetime, loc),
			Time:        FormatTime(a.Datetime, loc),
			Service:     orDash(a.Service),
			BookedOn:    FormatDate(a.CreatedAt, loc),
			Status:      a.Status(now),
			Cancellable: up,
		})
	}
	return v
}

type AdminRow struct {
	ID       string
	UserID   string
	Service  string
	Date     string
	Time     string
	BookedOn string
	Status   string
}

type AdminView struct {
	Search string
	Stats  Stats
	Rows   []AdminRow
}

// BuildAdmin counts stats over every record and lists the ones matching
// search.
func BuildAdmin(recs []model.Record, search string, now time.Time) AdminView {
	loc := now.Location()
	v := AdminView{Search: search, Stats: CountStats(model.NormalizeAll(recs), now)}
	for _, r := range SearchRecords(recs, search) {
		a := model.Normalize(r)
		v.Rows = append(v.Rows, AdminRow{
			ID:       a.ID,
			UserID:   orDash(a.UserID),
			Service:  orDash(a.Service),
			Date:     FormatDate(a.Datetime, loc),
			Time:     FormatTime(a.Datetime, loc),
			BookedOn: FormatDate(a.CreatedAt, loc),
			Status:   a.Status(now),
		})
	}
	return v
}

type ProfileView struct {
	Initials string
	Name     string
	Email    string
	Role     string
	Stats    Stats
}

func BuildProfile(u *model.User, appts []model.Appointment, now time.Time) ProfileView {
	v := ProfileView{
		Initials: u.Initials(),
		Role:     u.EffectiveRole(),
		Stats:    CountStats(appts, now),
	}
	if u != nil {
		v.Name, v.Email = u.Name, u.Email
	}
	return v
}

type NavItem struct {
	Page   Page
	Label  string
	Active bool
}

// Sidebar lists the pages u may open; admin only shows for admins.
func Sidebar(u *model.User, active Page) []NavItem {
	items := []NavItem{
		{Page: Dashboard, Label: "Dashboard"},
		{Page: Appointments, Label: "My Appointments"},
		{Page: Book, Label: "Book Appointment"},
		{Page: Profile, Label: "Profile"},
	}
	if u.IsAdmin() {
		items = append(items, NavItem{Page: Admin, Label: "Admin View"})
	}
	for i := range items {
		items[i].Active = items[i].Page == active
	}
	return items
}
