package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"findmyspot/models"

	"github.com/google/uuid"
)

// Child is one direct child record of a node.
type Child struct {
	Key   string
	Value json.RawMessage
}

// TxnFunc receives the current children of a node (nil when the node is empty) and
// returns the complete set of children to store in their place. Returning an error
// aborts the transaction without writing; the error is returned unchanged by
// Transaction. The function may run more than once and must not have side effects.
type TxnFunc func(current map[string]json.RawMessage) (map[string]json.RawMessage, error)

// RecordStore is a hierarchical key/value store addressed by slash-separated paths
// such as "users/{uid}" or "notifications/{uid}/{eventId}". Records are JSON objects
// stored at leaf paths.
type RecordStore interface {
	// Children returns the direct children of path ordered by key.
	Children(ctx context.Context, path string) ([]Child, error)
	// Get decodes the record at path into v. It reports false when nothing is stored.
	Get(ctx context.Context, path string, v interface{}) (bool, error)
	// Set writes the full value at path, replacing whatever was there.
	Set(ctx context.Context, path string, v interface{}) error
	// Update merges the given top-level fields into the record at path.
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	// Push appends v as a new child of path under a generated key and returns the key.
	Push(ctx context.Context, path string, v interface{}) (string, error)
	// Delete removes the record at path and everything below it.
	Delete(ctx context.Context, path string) error
	// Transaction atomically replaces the children of path with fn's result.
	Transaction(ctx context.Context, path string, fn TxnFunc) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// NewKey returns a child key whose lexical order is its creation order.
func NewKey() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Join builds a store path from its segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = cleanPath(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func cleanPath(path string) string {
	return strings.Trim(path, "/")
}

// splitPath returns the parent path and the last segment of path.
func splitPath(path string) (string, string) {
	path = cleanPath(path)
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// ValidateKey rejects keys that cannot address a single child: empty keys and
// keys containing characters the Realtime Database forbids.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, ".$#[]/") {
		return fmt.Errorf("%w: invalid key %q", models.ErrInvalidKey, key)
	}
	return nil
}
