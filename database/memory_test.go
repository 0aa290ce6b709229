package database

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
)

type record struct {
	Name  string `json:"name,omitempty"`
	Count int    `json:"count,omitempty"`
}

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "users/u1", record{Name: "a", Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got record
	found, err := s.Get(ctx, "/users/u1/", &got)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.Name != "a" || got.Count != 1 {
		t.Errorf("unexpected record %+v", got)
	}

	if err := s.Set(ctx, "users/u1/devices/d1", record{Name: "phone"}); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	if err := s.Delete(ctx, "users/u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if found, _ := s.Get(ctx, "users/u1/devices/d1", &got); found {
		t.Error("delete must remove descendants")
	}
	if found, _ := s.Get(ctx, "users/u1", &got); found {
		t.Error("record still present after delete")
	}
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "users/u1", record{Name: "a", Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Update(ctx, "users/u1", map[string]interface{}{"count": 5, "name": nil}); err != nil {
		t.Fatalf("update: %v", err)
	}
	var got record
	if _, err := s.Get(ctx, "users/u1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Count != 5 || got.Name != "" {
		t.Errorf("unexpected merge result %+v", got)
	}
	if err := s.Update(ctx, "users/u1", nil); err == nil {
		t.Error("expected error for empty update")
	}
}

func TestMemoryStorePushKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var keys []string
	for i := 1; i <= 20; i++ {
		key, err := s.Push(ctx, "notifications/u1", record{Count: i})
		if err != nil {
			t.Fatalf("push: %v", err)
		}
		keys = append(keys, key)
	}
	if !sort.StringsAreSorted(keys) {
		t.Fatal("generated keys are not in creation order")
	}
	children, err := s.Children(ctx, "notifications/u1")
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 20 {
		t.Fatalf("expected 20 children, got %d", len(children))
	}
	for i, c := range children {
		var r record
		if err := json.Unmarshal(c.Value, &r); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if r.Count != i+1 {
			t.Fatalf("child %d out of order: %+v", i, r)
		}
	}
}

func TestMemoryStoreTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "n/u1/a", record{Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "n/u1/b", record{Count: 2}); err != nil {
		t.Fatalf("set: %v", err)
	}

	abort := errors.New("abort")
	err := s.Transaction(ctx, "n/u1", func(current map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		return nil, abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if children, _ := s.Children(ctx, "n/u1"); len(children) != 2 {
		t.Fatalf("aborted transaction changed state: %d children", len(children))
	}

	err = s.Transaction(ctx, "n/u1", func(current map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		if len(current) != 2 {
			t.Errorf("expected 2 current children, got %d", len(current))
		}
		return map[string]json.RawMessage{
			"b": json.RawMessage(`{"count":3}`),
			"c": json.RawMessage(`{"count":4}`),
		}, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	children, _ := s.Children(ctx, "n/u1")
	if len(children) != 2 || children[0].Key != "b" || children[1].Key != "c" {
		t.Fatalf("unexpected children after transaction: %+v", children)
	}
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	if err := s.Set(ctx, "users/u1", record{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"", "a/b", "a.b", "$x", "#", "[0]"} {
		if ValidateKey(key) == nil {
			t.Errorf("expected %q to be rejected", key)
		}
	}
	if err := ValidateKey(NewKey()); err != nil {
		t.Errorf("generated key rejected: %v", err)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("/notifications/", "u1", "", "e1/"); got != "notifications/u1/e1" {
		t.Fatalf("unexpected path %q", got)
	}
}
