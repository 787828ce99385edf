package shell

import "booking-client/internal/pages"

func (s *Shell) Sidebar() []pages.NavItem {
	return pages.Sidebar(s.user, s.page)
}

func (s *Shell) DashboardView() pages.DashboardView {
	return pages.BuildDashboard(s.user, s.appts, s.now())
}

func (s *Shell) AppointmentsView(f pages.Filter, search string) pages.AppointmentsView {
	return pages.BuildAppointments(s.appts, f, search, s.now())
}

func (s *Shell) ProfileView() pages.ProfileView {
	return pages.BuildProfile(s.user, s.appts, s.now())
}

// AdminView works on the records from the last LoadAdmin.
func (s *Shell) AdminView(search string) pages.AdminView {
	return pages.BuildAdmin(s.admin, search, s.now())
}
