package proposalconfig

import (
	"context"
	"testing"

	"github.com/lamachat/recall/internal/db"
)

// mockStore is an in-memory KV + list store recording the order of writes.
type mockStore struct {
	kv    map[string][]byte
	lists map[string][]string
	ops   []string

	setErr   error
	lpushErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		kv:    make(map[string][]byte),
		lists: make(map[string][]string),
	}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.ops = append(m.ops, "SET "+key)
	m.kv[key] = value
	return nil
}

func (m *mockStore) LPush(_ context.Context, key string, values ...string) error {
	if m.lpushErr != nil {
		return m.lpushErr
	}
	m.ops = append(m.ops, "LPUSH "+key)
	m.lists[key] = append(values, m.lists[key]...)
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	list := m.lists[key]
	if stop < 0 || stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		return []string{}, nil
	}
	return list[start : stop+1], nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms), ms
}
