package database

import (
	"context"
	"encoding/json"
	"fmt"

	"firebase.google.com/go/v4/db"
)

// RTDBStore is the RecordStore backed by Firebase Realtime Database, the store
// the mobile app reads and writes directly.
type RTDBStore struct {
	client *db.Client
}

// NewRTDBStore wraps a Realtime Database client.
func NewRTDBStore(client *db.Client) *RTDBStore {
	return &RTDBStore{client: client}
}

func (s *RTDBStore) ref(path string) *db.Ref {
	return s.client.NewRef(cleanPath(path))
}

func (s *RTDBStore) Children(ctx context.Context, path string) ([]Child, error) {
	nodes, err := s.ref(path).OrderByKey().GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("rtdb: list %s: %w", path, err)
	}
	children := make([]Child, 0, len(nodes))
	for _, node := range nodes {
		var raw json.RawMessage
		if err := node.Unmarshal(&raw); err != nil {
			return nil, fmt.Errorf("rtdb: decode %s/%s: %w", path, node.Key(), err)
		}
		children = append(children, Child{Key: node.Key(), Value: raw})
	}
	return children, nil
}

func (s *RTDBStore) Get(ctx context.Context, path string, v interface{}) (bool, error) {
	var raw json.RawMessage
	if err := s.ref(path).Get(ctx, &raw); err != nil {
		return false, fmt.Errorf("rtdb: get %s: %w", path, err)
	}
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("rtdb: decode %s: %w", path, err)
	}
	return true, nil
}

func (s *RTDBStore) Set(ctx context.Context, path string, v interface{}) error {
	if err := s.ref(path).Set(ctx, v); err != nil {
		return fmt.Errorf("rtdb: set %s: %w", path, err)
	}
	return nil
}

func (s *RTDBStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("rtdb: update %s: no fields", path)
	}
	if err := s.ref(path).Update(ctx, fields); err != nil {
		return fmt.Errorf("rtdb: update %s: %w", path, err)
	}
	return nil
}

// Push writes under a locally generated time-ordered key rather than a server push
// id so that keys written by Push and by Transaction share one ordering.
func (s *RTDBStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	key := NewKey()
	if err := s.ref(path).Child(key).Set(ctx, v); err != nil {
		return "", fmt.Errorf("rtdb: push %s: %w", path, err)
	}
	return key, nil
}

func (s *RTDBStore) Delete(ctx context.Context, path string) error {
	if err := s.ref(path).Delete(ctx); err != nil {
		return fmt.Errorf("rtdb: delete %s: %w", path, err)
	}
	return nil
}

// Transaction uses the SDK's ETag-conditional transaction on the node, which
// retries on concurrent modification.
func (s *RTDBStore) Transaction(ctx context.Context, path string, fn TxnFunc) error {
	var fnErr error
	err := s.ref(path).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var current map[string]json.RawMessage
		if err := tn.Unmarshal(&current); err != nil {
			return nil, fmt.Errorf("rtdb: decode %s: %w", path, err)
		}
		next, err := fn(current)
		if err != nil {
			fnErr = err
			return nil, err
		}
		if len(next) == 0 {
			return nil, nil
		}
		return next, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("rtdb: transaction %s: %w", path, err)
	}
	return nil
}

func (s *RTDBStore) Ping(ctx context.Context) error {
	var raw json.RawMessage
	if err := s.client.NewRef("_health").Get(ctx, &raw); err != nil {
		return fmt.Errorf("rtdb: ping: %w", err)
	}
	return nil
}
