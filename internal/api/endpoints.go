package api

import (
	"context"
	"encoding/json"
	"net/url"

	"booking-client/internal/log"
	"booking-client/internal/model"
)

func (c *Client) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	var out model.TokenResponse
	err := c.post(ctx, "/auth/login", "POST /auth/login", model.Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, creds model.Credentials) error {
	var out json.RawMessage
	return c.post(ctx, "/auth/register", "POST /auth/register", creds, &out)
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, "/auth/me", "GET /auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) MyAppointments(ctx context.Context) ([]model.Record, error) {
	return c.list(ctx, "/appointments/my", "GET /appointments/my")
}

// AllAppointments is the admin listing across every user.
func (c *Client) AllAppointments(ctx context.Context) ([]model.Record, error) {
	return c.list(ctx, "/appointments/all", "GET /appointments/all")
}

// CreateAppointment posts a booking. Once the backend accepts it the call
// succeeds; a response body that is not a record yields an empty one.
func (c *Client) CreateAppointment(ctx context.Context, a model.NewAppointment) (*model.Record, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/appointments/", "POST /appointments/", a, &raw); err != nil {
		return nil, err
	}
	var out model.Record
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			log.Warn("unreadable_record", map[string]any{"endpoint": "POST /appointments/", "err": err.Error()})
			out = model.Record{}
		}
	}
	return &out, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.del(ctx, "/appointments/"+url.PathEscape(id), "DELETE /appointments/{id}")
}

// list treats any non-array body as an empty list. Elements are decoded one
// at a time and ones that are not objects are skipped.
func (c *Client) list(ctx context.Context, path, endpoint string) ([]model.Record, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, endpoint, &raw); err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn("non_array_list", map[string]any{"endpoint": endpoint})
		return []model.Record{}, nil
	}
	recs := make([]model.Record, 0, len(items))
	for i, it := range items {
		var r model.Record
		if err := json.Unmarshal(it, &r); err != nil {
			log.Warn("unreadable_record", map[string]any{"endpoint": endpoint, "index": i, "err": err.Error()})
			continue
		}
		recs = append(recs, r)
	}
	return recs, nil
}
