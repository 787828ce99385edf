// Package backendtest runs an in-memory booking backend for tests. It
// speaks the same JSON the real service does: `_id` and `appointment_time`
// on records and `{"detail": ...}` on errors.
package backendtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const secret = "backendtest-secret"

type ctxKey string

const userIDKey ctxKey = "uid"

type Server struct {
	*httptest.Server

	st *store

	mu    sync.Mutex
	calls []string
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{st: newStore()}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.Handle("GET /auth/me", s.authed(s.me))
	mux.Handle("GET /appointments/my", s.authed(s.myAppointments))
	mux.Handle("GET /appointments/all", s.authed(s.allAppointments))
	mux.Handle("POST /appointments/", s.authed(s.createAppointment))
	mux.Handle("DELETE /appointments/{id}", s.authed(s.deleteAppointment))
	return s.record(mux)
}

// Calls lists "METHOD /path" for every request received, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(t testing.TB, name, email, password, role string) string {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user{Name: name, Email: email, PasswordHash: hash, Role: role}
	if !s.st.createUser(u) {
		t.Fatalf("user %s already exists", email)
	}
	return u.ID
}

// Token issues an access token for userID, as a login would.
func (s *Server) Token(t testing.TB, userID string, ttl time.Duration) string {
	t.Helper()
	tok, err := signToken(userID, ttl)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	return tok
}

// AddAppointment stores an appointment for userID without validation, so
// tests can seed past bookings.
func (s *Server) AddAppointment(userID, service string, at time.Time) string {
	a := &appointment{UserID: userID, Service: service, AppointmentTime: at.UTC()}
	s.st.createAppointment(a)
	return a.ID
}

func (s *Server) Appointments(userID string) int {
	return len(s.st.listAppointments(userID))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// token from Authorization: Bearer <jwt>
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := verifyToken(raw)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	})
}

func uid(r *http.Request) string {
	return r.Context().Value(userIDKey).(string)
}
