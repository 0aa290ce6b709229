package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process RecordStore. Every operation, transactions
// included, runs under one lock, so it is linearizable.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]json.RawMessage
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Children(ctx context.Context, path string) ([]Child, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.childrenLocked(cleanPath(path)), nil
}

func (m *MemoryStore) childrenLocked(path string) []Child {
	prefix := path + "/"
	var children []Child
	for p, v := range m.records {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		key := strings.TrimPrefix(p, prefix)
		if key == "" || strings.Contains(key, "/") {
			continue
		}
		children = append(children, Child{Key: key, Value: append(json.RawMessage(nil), v...)})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Key < children[j].Key })
	return children
}

func (m *MemoryStore) Get(ctx context.Context, path string, v interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	raw, ok := m.records[cleanPath(path)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func (m *MemoryStore) Set(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	path = cleanPath(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(path)
	if !isNull(raw) {
		m.records[path] = raw
	}
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("update %s: no fields", path)
	}
	path = cleanPath(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	current := map[string]json.RawMessage{}
	if raw, ok := m.records[path]; ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("update %s: existing value is not an object: %w", path, err)
		}
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", path, k, err)
		}
		if isNull(raw) {
			delete(current, k)
			continue
		}
		current[k] = raw
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return err
	}
	m.records[path] = merged
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	key := NewKey()
	if err := m.Set(ctx, Join(path, key), v); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(cleanPath(path))
	return nil
}

func (m *MemoryStore) deleteLocked(path string) {
	delete(m.records, path)
	prefix := path + "/"
	for p := range m.records {
		if strings.HasPrefix(p, prefix) {
			delete(m.records, p)
		}
	}
}

func (m *MemoryStore) Transaction(ctx context.Context, path string, fn TxnFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = cleanPath(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	var current map[string]json.RawMessage
	for _, c := range m.childrenLocked(path) {
		if current == nil {
			current = make(map[string]json.RawMessage)
		}
		current[c.Key] = c.Value
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	for key := range current {
		if _, keep := next[key]; !keep {
			m.deleteLocked(Join(path, key))
		}
	}
	for key, raw := range next {
		if isNull(raw) {
			m.deleteLocked(Join(path, key))
			continue
		}
		m.records[Join(path, key)] = append(json.RawMessage(nil), raw...)
	}
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
