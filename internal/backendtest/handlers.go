package backendtest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"booking-client/internal/model"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeDetail(w, http.StatusBadRequest, "all fields required")
		return
	}
	if len(req.Password) < 6 {
		writeDetail(w, http.StatusBadRequest, "password too short")
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	u := &user{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: model.RoleMember}
	if !s.st.createUser(u) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, http.StatusCreated, model.User{Name: u.Name, Email: u.Email, Role: u.Role})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	u, ok := s.st.userByEmail(req.Email)
	if !ok || !checkPassword(u.PasswordHash, req.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	tok, err := signToken(u.ID, accessTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.st.userByID(uid(r))
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, model.User{Name: u.Name, Email: u.Email, Role: u.Role})
}

func (s *Server) myAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.st.listAppointments(uid(r)))
}

func (s *Server) allAppointments(w http.ResponseWriter, r *http.Request) {
	u, ok := s.st.userByID(uid(r))
	if !ok || u.Role != model.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	writeJSON(w, http.StatusOK, s.st.listAppointments(""))
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req model.NewAppointment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if strings.TrimSpace(req.Service) == "" {
		writeDetail(w, http.StatusBadRequest, "service required")
		return
	}
	at, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "appointment_time must be an ISO 8601 timestamp")
		return
	}
	if at.Before(time.Now().Add(-5 * time.Minute)) {
		writeDetail(w, http.StatusBadRequest, "cannot book in the past")
		return
	}
	a := &appointment{UserID: uid(r), Service: req.Service, AppointmentTime: at.UTC()}
	s.st.createAppointment(a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	// ownership: 404 not 403 to hide existence
	if !s.st.deleteAppointment(r.PathValue("id"), uid(r)) {
		writeDetail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled"})
}
