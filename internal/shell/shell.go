// Package shell owns the session: who is logged in, their appointments and
// the active page. It runs every fetch/refresh cycle that follows login,
// booking and cancellation. A Shell is not safe for concurrent use.
package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-client/internal/api"
	"booking-client/internal/auth"
	"booking-client/internal/form"
	"booking-client/internal/log"
	"booking-client/internal/metrics"
	"booking-client/internal/model"
	"booking-client/internal/pages"
	"booking-client/internal/toast"
	"booking-client/internal/tokenstore"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("admin access required")

	// ErrNotCancellable is returned for appointments that are no longer
	// upcoming.
	ErrNotCancellable = errors.New("only upcoming appointments can be cancelled")
)

type BookState string

const (
	BookIdle       BookState = "idle"
	BookSubmitting BookState = "submitting"
	BookSuccess    BookState = "success"
	BookError      BookState = "error"
)

type Shell struct {
	api     *api.Client
	tokens  tokenstore.Store
	toasts  *toast.Notifier
	metrics *metrics.Metrics
	now     func() time.Time

	user      *model.User
	appts     []model.Appointment
	page      pages.Page
	authMode  form.Mode
	bookState BookState
	admin     []model.Record
}

type Option func(*Shell)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Shell) { s.metrics = m }
}

func New(client *api.Client, toasts *toast.Notifier, opts ...Option) *Shell {
	s := &Shell{
		api:       client,
		tokens:    client.Tokens(),
		toasts:    toasts,
		now:       time.Now,
		appts:     []model.Appointment{},
		page:      pages.Dashboard,
		authMode:  form.ModeLogin,
		bookState: BookIdle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Shell) User() *model.User                 { return s.user }
func (s *Shell) LoggedIn() bool                    { return s.user != nil }
func (s *Shell) Appointments() []model.Appointment { return s.appts }
func (s *Shell) Page() pages.Page                  { return s.page }
func (s *Shell) AuthMode() form.Mode               { return s.authMode }
func (s *Shell) BookState() BookState              { return s.bookState }
func (s *Shell) Toasts() *toast.Notifier           { return s.toasts }

// SetAuthMode flips the auth form between login and register.
func (s *Shell) SetAuthMode(m form.Mode) { s.authMode = m }

// Restore resumes a session from the stored token. A missing, expired or
// rejected token leaves the shell logged out; only a failing token store is
// an error.
func (s *Shell) Restore(ctx context.Context) error {
	tok, err := s.tokens.Get(ctx)
	if errors.Is(err, tokenstore.ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if auth.Expired(tok, s.now()) {
		log.Info("session_expired", nil)
		return s.tokens.Clear(ctx)
	}

	u, err := s.api.Me(ctx)
	if err != nil {
		log.Warn("session_rejected", map[string]any{"err": err.Error()})
		return s.tokens.Clear(ctx)
	}
	s.user = u
	s.FetchAppointments(ctx)
	return nil
}

func (s *Shell) Login(ctx context.Context, f form.Auth) error {
	f.Mode = form.ModeLogin
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}

	tr, err := s.api.Login(ctx, f.Email, f.Password)
	if err != nil {
		return s.fail("login", err)
	}
	if err := s.tokens.Set(ctx, tr.AccessToken); err != nil {
		return s.fail("login", fmt.Errorf("save token: %w", err))
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		return s.fail("login", err)
	}

	s.user = u
	s.FetchAppointments(ctx)
	s.page = pages.Dashboard
	s.toasts.Add("Welcome back!", toast.Success)
	log.Audit("login", map[string]any{"email": u.Email, "role": u.EffectiveRole()})
	return nil
}

// Register creates the account and switches the form to login; it does not
// log in.
func (s *Shell) Register(ctx context.Context, f form.Auth) error {
	f.Mode = form.ModeRegister
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}
	if err := s.api.Register(ctx, f.Credentials()); err != nil {
		return s.fail("register", err)
	}
	s.toasts.Add("Account created! Please log in.", toast.Success)
	s.authMode = form.ModeLogin
	log.Audit("register", map[string]any{"email": f.Email})
	return nil
}

func (s *Shell) Logout(ctx context.Context) error {
	err := s.tokens.Clear(ctx)
	s.user = nil
	s.appts = []model.Appointment{}
	s.admin = nil
	s.page = pages.Dashboard
	s.metrics.SetAppointments(0)
	log.Audit("logout", nil)
	return err
}

// FetchAppointments refreshes the user's list. Failures are logged and the
// previous list is kept.
func (s *Shell) FetchAppointments(ctx context.Context) {
	recs, err := s.api.MyAppointments(ctx)
	if err != nil {
		log.Error("fetch_appointments", err, nil)
		return
	}
	s.appts = model.NormalizeAll(recs)
	s.metrics.SetAppointments(len(s.appts))
}

// Book validates the form, posts it, and on success refreshes the list and
// moves to the appointments page. Validation failures return form.Errors
// without touching the network.
func (s *Shell) Book(ctx context.Context, f form.Booking) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	at, errs := f.Validate(s.now())
	if len(errs) > 0 {
		return errs
	}

	s.bookState = BookSubmitting
	if _, err := s.api.CreateAppointment(ctx, f.Request(at)); err != nil {
		s.bookState = BookError
		return s.fail("book", err)
	}
	s.bookState = BookSuccess
	s.toasts.Add("Appointment booked!", toast.Success)
	log.Audit("book", map[string]any{"service": f.Service, "at": at.UTC().Format(time.RFC3339)})

	s.FetchAppointments(ctx)
	s.page = pages.Appointments
	return nil
}

// ResetBooking returns the form to idle, as when it is reopened.
func (s *Shell) ResetBooking() { s.bookState = BookIdle }

// Cancel deletes an upcoming appointment once confirm agrees; a nil confirm
// counts as yes. Past appointments in the loaded list are refused before
// confirm or the network. On success the entry is dropped locally without a
// re-fetch.
func (s *Shell) Cancel(ctx context.Context, id string, confirm func(id string) bool) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	now := s.now()
	for _, a := range s.appts {
		if a.ID == id && !a.Upcoming(now) {
			return ErrNotCancellable
		}
	}
	if confirm != nil && !confirm(id) {
		return nil
	}
	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		return s.fail("cancel", err)
	}

	kept := make([]model.Appointment, 0, len(s.appts))
	for _, a := range s.appts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.appts = kept
	s.metrics.SetAppointments(len(s.appts))
	s.toasts.Add("Appointment cancelled.", toast.Info)
	log.Audit("cancel", map[string]any{"id": id})
	return nil
}

// Navigate switches the active page. Admin is reserved for admins.
func (s *Shell) Navigate(p pages.Page) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if p == pages.Admin && !s.user.IsAdmin() {
		return ErrForbidden
	}
	s.page = p
	if p == pages.Book {
		s.ResetBooking()
	}
	return nil
}

// LoadAdmin fetches every user's appointments for the admin table.
func (s *Shell) LoadAdmin(ctx context.Context) ([]model.Record, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	recs, err := s.api.AllAppointments(ctx)
	if err != nil {
		return nil, s.fail("admin", err)
	}
	s.admin = recs
	return recs, nil
}

// fail shows err as an error toast and hands it back.
func (s *Shell) fail(action string, err error) error {
	log.Error(action, err, nil)
	s.toasts.Add(err.Error(), toast.Error)
	return err
}
