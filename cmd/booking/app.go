package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"booking-client/internal/api"
	"booking-client/internal/config"
	"booking-client/internal/export"
	"booking-client/internal/form"
	"booking-client/internal/metrics"
	"booking-client/internal/pages"
	"booking-client/internal/shell"
	"booking-client/internal/toast"
	"booking-client/internal/tokenstore"
)

type app struct {
	cfg     config.Config
	sh      *shell.Shell
	toasts  *toast.Notifier
	metrics *metrics.Metrics
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
}

type command func(ctx context.Context, args []string) error

func newApp(cfg config.Config, tokens tokenstore.Store, m *metrics.Metrics, stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		cfg:     cfg,
		metrics: m,
		in:      bufio.NewReader(stdin),
		out:     stdout,
		errOut:  stderr,
		now:     time.Now,
	}
	client := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Tokens:    tokens,
		Metrics:   m,
		AuthRPS:   cfg.API.AuthRPS,
		AuthBurst: cfg.API.AuthBurst,
	})
	a.toasts = toast.New(toast.DefaultTTL,
		toast.WithMetrics(m),
		toast.WithDisplay(func(t toast.Toast) {
			fmt.Fprintf(a.errOut, "[%s] %s\n", t.Type, t.Message)
		}),
	)
	a.sh = shell.New(client, a.toasts, shell.WithMetrics(m))
	return a
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":     a.login,
		"register":  a.register,
		"logout":    a.logout,
		"dashboard": a.dashboard,
		"list":      a.list,
		"book":      a.book,
		"cancel":    a.cancel,
		"admin":     a.admin,
		"export":    a.export,
		"profile":   a.profile,
	}
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	defer a.toasts.Close()
	if len(args) == 0 {
		usage(a.errOut)
		return 2
	}
	name, rest := args[0], args[1:]

	if name == "shell" {
		if err := a.repl(ctx); err != nil {
			a.report(err)
			return 1
		}
		return 0
	}
	cmd, ok := a.commands()[name]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n", name)
		usage(a.errOut)
		return 2
	}
	if name != "login" && name != "register" {
		if err := a.sh.Restore(ctx); err != nil {
			a.report(err)
			return 1
		}
	}
	if err := cmd(ctx, rest); err != nil {
		a.report(err)
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		return 1
	}
	return 0
}

// report prints err unless a toast already showed it.
func (a *app) report(err error) {
	if err == nil {
		return
	}
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr), errors.Is(err, flag.ErrHelp):
	case errors.Is(err, shell.ErrNotLoggedIn):
		fmt.Fprintln(a.errOut, "not logged in; run: booking login -email E -password P")
	default:
		fmt.Fprintf(a.errOut, "error: %v\n", err)
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// prompt reads one trimmed line after showing label.
func (a *app) prompt(label string) string {
	fmt.Fprint(a.out, label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = a.prompt("Password: ")
	}
	if err := a.sh.Login(ctx, form.Auth{Email: *email, Password: *password}); err != nil {
		return err
	}
	pages.RenderDashboard(a.out, a.sh.DashboardView())
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = a.prompt("Password: ")
	}
	return a.sh.Register(ctx, form.Auth{Name: *name, Email: *email, Password: *password})
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.sh.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) dashboard(_ context.Context, _ []string) error {
	if err := a.sh.Navigate(pages.Dashboard); err != nil {
		return err
	}
	pages.RenderDashboard(a.out, a.sh.DashboardView())
	return nil
}

func (a *app) list(_ context.Context, args []string) error {
	fs := a.flags("list")
	filter := fs.String("filter", "all", "all, upcoming or done")
	search := fs.String("search", "", "service name substring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := pages.ParseFilter(*filter)
	if err != nil {
		return err
	}
	if err := a.sh.Navigate(pages.Appointments); err != nil {
		return err
	}
	pages.RenderAppointments(a.out, a.sh.AppointmentsView(f, *search))
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := a.flags("book")
	var b form.Booking
	fs.StringVar(&b.Service, "service", "", "service name")
	fs.StringVar(&b.Date, "date", "", "date as YYYY-MM-DD")
	fs.StringVar(&b.Time, "time", "", "time as HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.sh.Navigate(pages.Book); err != nil {
		return err
	}
	if err := a.sh.Book(ctx, b); err != nil {
		return err
	}
	pages.RenderAppointments(a.out, a.sh.AppointmentsView(pages.FilterAll, ""))
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	fs := a.flags("cancel")
	yes := fs.Bool("yes", false, "skip the confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: cancel ID [-yes]")
	}
	id := fs.Arg(0)
	// flags may follow the id
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}

	var confirm func(string) bool
	if !*yes {
		confirm = func(id string) bool {
			ans := strings.ToLower(a.prompt(fmt.Sprintf("Cancel appointment %s? [y/N] ", id)))
			return ans == "y" || ans == "yes"
		}
	}
	return a.sh.Cancel(ctx, id, confirm)
}

func (a *app) adminView(ctx context.Context, search string) (pages.AdminView, error) {
	if err := a.sh.Navigate(pages.Admin); err != nil {
		return pages.AdminView{}, err
	}
	if _, err := a.sh.LoadAdmin(ctx); err != nil {
		return pages.AdminView{}, err
	}
	return a.sh.AdminView(search), nil
}

func (a *app) admin(ctx context.Context, args []string) error {
	fs := a.flags("admin")
	search := fs.String("search", "", "filter over every field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := a.adminView(ctx, *search)
	if err != nil {
		return err
	}
	pages.RenderAdmin(a.out, v)
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	format := fs.String("format", "xlsx", "xlsx or csv")
	dir := fs.String("dir", a.cfg.Export.Path, "output directory")
	search := fs.String("search", "", "filter over every field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	v, err := a.adminView(ctx, *search)
	if err != nil {
		return err
	}
	path, err := export.ToFile(*dir, f, v.Rows, a.now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d appointments to %s\n", len(v.Rows), path)
	return nil
}

func (a *app) profile(_ context.Context, _ []string) error {
	if err := a.sh.Navigate(pages.Profile); err != nil {
		return err
	}
	pages.RenderProfile(a.out, a.sh.ProfileView())
	return nil
}
