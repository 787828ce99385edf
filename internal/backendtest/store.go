package backendtest

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type user struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

type appointment struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"user_id"`
	Service         string    `json:"service"`
	AppointmentTime time.Time `json:"appointment_time"`
	CreatedAt       time.Time `json:"created_at"`
}

type store struct {
	mu    sync.Mutex
	users map[string]*user // by email
	appts map[string]*appointment
}

func newStore() *store {
	return &store{
		users: make(map[string]*user),
		appts: make(map[string]*appointment),
	}
}

// createUser fails when the email is taken.
func (s *store) createUser(u *user) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return false
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	s.users[u.Email] = u
	return true
}

func (s *store) userByEmail(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}

func (s *store) userByID(id string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *store) createAppointment(a *appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.appts[a.ID] = a
}

// listAppointments returns one user's appointments, or everyone's when
// userID is empty, ordered by appointment time.
func (s *store) listAppointments(userID string) []appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]appointment, 0, len(s.appts))
	for _, a := range s.appts {
		if userID == "" || a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentTime.Before(out[j].AppointmentTime)
	})
	return out
}

// deleteAppointment only removes the owner's record; it reports whether
// anything was removed.
func (s *store) deleteAppointment(id, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	if !ok || a.UserID != userID {
		return false
	}
	delete(s.appts, id)
	return true
}
