package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"booking-client/internal/api"
	"booking-client/internal/backendtest"
	"booking-client/internal/metrics"
	"booking-client/internal/model"
	"booking-client/internal/tokenstore"
)

func newClient(base string, tokens tokenstore.Store) *api.Client {
	return api.New(api.Options{BaseURL: base, Timeout: 5 * time.Second, Tokens: tokens})
}

func TestBearerTokenAttached(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"name":"Ada","email":"ada@x.io","role":"member"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, tokenstore.NewMemory("tok-123"))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var has bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, tokenstore.NewMemory(""))
	if _, err := c.MyAppointments(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if has {
		t.Error("authorization header sent without a token")
	}
}

func TestRequestHeaders(t *testing.T) {
	var ct, rid, custom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		rid = r.Header.Get("X-Request-ID")
		custom = r.Header.Get("X-Trace")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, nil)
	h := http.Header{"X-Trace": []string{"abc"}}
	if err := c.Request(context.Background(), http.MethodGet, "/ping", "GET /ping", nil, nil, h); err != nil {
		t.Fatalf("request: %v", err)
	}
	if ct != "application/json" {
		t.Errorf("content type: %q", ct)
	}
	if len(rid) != 36 {
		t.Errorf("expected uuid request id, got %q", rid)
	}
	if custom != "abc" {
		t.Errorf("custom header not forwarded: %q", custom)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 400, `{"detail":"Slot already taken"}`, "Slot already taken"},
		{"validation list", 422, `{"detail":[{"msg":"field required"},{"msg":"bad date"}]}`, "field required; bad date"},
		{"no detail", 500, `{"error":"x"}`, "Request failed"},
		{"not json", 502, `<html>bad gateway</html>`, "Request failed"},
		{"empty body", 404, ``, "Request failed"},
		{"empty detail", 400, `{"detail":""}`, "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(srv.URL, nil).Me(context.Background())
			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.Error, got %T %v", err, err)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message: got %q want %q", apiErr.Message, tt.want)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status: got %d want %d", apiErr.Status, tt.status)
			}
		})
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL, nil).Me(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestListNonArrayIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	recs, err := newClient(srv.URL, nil).MyAppointments(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}
}

func TestListSkipsUnreadableElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"service":"Haircut"},5,{"_id":"x2","user_id":9}]`))
	}))
	defer srv.Close()

	recs, err := newClient(srv.URL, nil).MyAppointments(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].Key() != "1" || recs[1].Key() != "x2" || recs[1].UserID != "9" {
		t.Errorf("unexpected records: %+v", recs)
	}
}

func TestCreateAppointmentResponseBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
	}{
		{"numeric id", `{"id":3,"service":"Haircut"}`, "3"},
		{"not json", `ok`, ""},
		{"not an object", `[1,2]`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			rec, err := newClient(srv.URL, nil).CreateAppointment(context.Background(),
				model.NewAppointment{Service: "Haircut", AppointmentTime: "2099-01-01T10:00:00Z"})
			if err != nil {
				t.Fatalf("accepted booking reported as failure: %v", err)
			}
			if rec == nil || rec.Key() != tt.key {
				t.Errorf("got %+v, want key %q", rec, tt.key)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newClient(srv.URL, nil).Me(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an api.Error: %v", err)
	}
}

func TestAuthThrottle(t *testing.T) {
	be := backendtest.New(t)
	m := metrics.New()
	c := api.New(api.Options{BaseURL: be.URL, Tokens: tokenstore.NewMemory(""), Metrics: m, AuthRPS: 0.001, AuthBurst: 2})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Login(ctx, "nobody@x.io", "secret1"); err == nil {
			t.Fatal("expected invalid credentials")
		}
	}
	_, err := c.Login(ctx, "nobody@x.io", "secret1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected throttle error, got %v", err)
	}
	if n := len(be.Calls()); n != 2 {
		t.Errorf("throttled call reached the network: %d calls", n)
	}
	if got := testutil.ToFloat64(m.Throttled); got != 1 {
		t.Errorf("throttle metric: got %v", got)
	}

	// other endpoints are not throttled
	if _, err := c.MyAppointments(ctx); err == nil {
		t.Fatal("expected unauthenticated error from backend")
	} else if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
		t.Error("appointments endpoint was throttled")
	}
}

// ----- against the fake backend -----

func TestLoginMeAndAppointments(t *testing.T) {
	be := backendtest.New(t)
	uid := be.AddUser(t, "Ada Lovelace", "ada@x.io", "secret1", model.RoleMember)
	be.AddAppointment(uid, "Haircut", time.Now().Add(48*time.Hour))

	tokens := tokenstore.NewMemory("")
	c := newClient(be.URL, tokens)
	ctx := context.Background()

	tr, err := c.Login(ctx, "ada@x.io", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tr.AccessToken == "" {
		t.Fatal("empty access token")
	}
	tokens.Set(ctx, tr.AccessToken)

	u, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if u.Name != "Ada Lovelace" || u.Role != model.RoleMember {
		t.Errorf("unexpected user: %+v", u)
	}

	recs, err := c.MyAppointments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].MongoID == "" || recs[0].Service != "Haircut" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if len(recs[0].Raw) == 0 {
		t.Error("raw body not kept")
	}
}

func TestCreateAndDeleteAppointment(t *testing.T) {
	be := backendtest.New(t)
	uid := be.AddUser(t, "Bo", "bo@x.io", "secret1", model.RoleMember)
	c := newClient(be.URL, tokenstore.NewMemory(be.Token(t, uid, time.Hour)))
	ctx := context.Background()

	at := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	rec, err := c.CreateAppointment(ctx, model.NewAppointment{Service: "Dental Checkup", AppointmentTime: at})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Key() == "" {
		t.Fatal("created record has no id")
	}
	if be.Appointments(uid) != 1 {
		t.Fatalf("expected 1 stored appointment")
	}

	if err := c.DeleteAppointment(ctx, rec.Key()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if be.Appointments(uid) != 0 {
		t.Error("appointment still stored after delete")
	}

	err = c.DeleteAppointment(ctx, rec.Key())
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Appointment not found" {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAllAppointmentsRequiresAdmin(t *testing.T) {
	be := backendtest.New(t)
	member := be.AddUser(t, "Mem", "mem@x.io", "secret1", model.RoleMember)
	admin := be.AddUser(t, "Root", "root@x.io", "secret1", model.RoleAdmin)
	be.AddAppointment(member, "Massage", time.Now().Add(time.Hour))

	ctx := context.Background()
	_, err := newClient(be.URL, tokenstore.NewMemory(be.Token(t, member, time.Hour))).AllAppointments(ctx)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %v", err)
	}

	recs, err := newClient(be.URL, tokenstore.NewMemory(be.Token(t, admin, time.Hour))).AllAppointments(ctx)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(recs) != 1 || recs[0].UserID != member {
		t.Errorf("unexpected admin records: %+v", recs)
	}
}

func TestMetricsObserved(t *testing.T) {
	be := backendtest.New(t)
	m := metrics.New()
	c := api.New(api.Options{BaseURL: be.URL, Tokens: tokenstore.NewMemory(""), Metrics: m})

	c.Me(context.Background())
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET /auth/me", "401")); got != 1 {
		t.Errorf("expected one 401 observation, got %v", got)
	}
}
