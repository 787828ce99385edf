// Package tokenstore persists the session's bearer token between runs.
package tokenstore

import (
	"context"
	"errors"
	"sync"
)

var ErrNoToken = errors.New("no stored token")

type Store interface {
	// Get returns ErrNoToken when nothing is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	// Clear is a no-op when nothing is stored.
	Clear(ctx context.Context) error
}

type Memory struct {
	mu  sync.Mutex
	tok string
}

func NewMemory(token string) *Memory {
	return &Memory{tok: token}
}

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == "" {
		return "", ErrNoToken
	}
	return m.tok, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.tok = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(context.Context) error {
	return m.Set(context.Background(), "")
}
