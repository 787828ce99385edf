package pages

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "Total: %d   Upcoming: %d   Past: %d\n", s.Total, s.Upcoming, s.Past)
}

func RenderDashboard(w io.Writer, v DashboardView) {
	fmt.Fprintf(w, "%s\n%s\n\n", v.Greeting, v.Today)
	writeStats(w, v.Stats)
	fmt.Fprintln(w, "\nUpcoming Appointments")
	if len(v.Upcoming) == 0 {
		fmt.Fprintln(w, "  No upcoming appointments. Book one!")
		return
	}
	for _, a := range v.Upcoming {
		loc := a.Datetime.Location()
		svc := a.Service
		if svc == "" {
			svc = "Appointment"
		}
		fmt.Fprintf(w, "  %s · %s  %s\n", FormatDate(a.Datetime, loc), FormatTime(a.Datetime, loc), svc)
	}
}

func RenderAppointments(w io.Writer, v AppointmentsView) {
	fmt.Fprintf(w, "My Appointments [filter: %s", v.Filter)
	if v.Search != "" {
		fmt.Fprintf(w, ", search: %q", v.Search)
	}
	fmt.Fprintln(w, "]")
	if v.Empty() {
		fmt.Fprintln(w, "No appointments found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE & TIME\tSERVICE\tBOOKED ON\tSTATUS")
	for _, r := range v.Rows {
		status := r.Status
		if r.Cancellable {
			status += " (cancellable)"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n", r.ID, r.Date, r.Time, r.Service, r.BookedOn, status)
	}
	tw.Flush()
}

func RenderAdmin(w io.Writer, v AdminView) {
	fmt.Fprintln(w, "Admin Dashboard: all appointments across all users")
	writeStats(w, v.Stats)
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tUSER ID\tSERVICE\tAPPOINTMENT TIME\tBOOKED ON\tSTATUS")
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "#%s\t%s\t%s\t%s %s\t%s\t%s\n", r.ID, r.UserID, r.Service, r.Date, r.Time, r.BookedOn, r.Status)
	}
	tw.Flush()
}

func RenderProfile(w io.Writer, v ProfileView) {
	fmt.Fprintf(w, "[%s] %s\n", v.Initials, v.Name)
	tw := table(w)
	fmt.Fprintf(tw, "Full Name\t%s\n", v.Name)
	fmt.Fprintf(tw, "Email\t%s\n", v.Email)
	fmt.Fprintf(tw, "Role\t%s\n", v.Role)
	tw.Flush()
	writeStats(w, v.Stats)
}

func RenderSidebar(w io.Writer, items []NavItem) {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		label := string(it.Page)
		if it.Active {
			label = "*" + label
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(w, "[ %s ]\n", strings.Join(parts, " | "))
}
