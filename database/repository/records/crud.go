package recordsRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"findmyspot/database"
	"findmyspot/models"

	"go.uber.org/zap"
)

func eventsPath(uid string) string {
	return database.Join(EventsRoot, uid)
}

// decodeEvent parses and validates one stored child; the store key is the id.
func decodeEvent(key string, raw json.RawMessage) (models.ParkingEvent, error) {
	var event models.ParkingEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return event, fmt.Errorf("%w: event %s: %v", models.ErrInvalidRecord, key, err)
	}
	event.ID = key
	if err := event.Validate(); err != nil {
		return event, err
	}
	return event, nil
}

// rawClosed reports whether a stored child carries a timeOut, reading only the raw
// JSON so it works on records that do not decode.
func rawClosed(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	timeOut, ok := fields["timeOut"]
	if !ok {
		return false
	}
	var text string
	if err := json.Unmarshal(timeOut, &text); err == nil {
		return text != ""
	}
	return string(timeOut) != "null"
}

func skipInvalid(uid, key string, err error) {
	zap.L().Warn("records: skipping unreadable event",
		zap.String("uid", uid), zap.String("eventId", key), zap.Error(err))
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, op, err)
}

// List returns the user's events in creation order. Records that fail to parse or
// validate are logged and skipped.
func (r *storeRecordRepo) List(ctx context.Context, uid string) ([]models.ParkingEvent, error) {
	if err := database.ValidateKey(uid); err != nil {
		return nil, err
	}
	children, err := r.store.Children(ctx, eventsPath(uid))
	if err != nil {
		return nil, storeErr("list events", err)
	}
	events := make([]models.ParkingEvent, 0, len(children))
	for _, c := range children {
		event, err := decodeEvent(c.Key, c.Value)
		if err != nil {
			skipInvalid(uid, c.Key, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// GetByID returns a single event.
func (r *storeRecordRepo) GetByID(ctx context.Context, uid, id string) (*models.ParkingEvent, error) {
	if err := database.ValidateKey(uid); err != nil {
		return nil, err
	}
	if err := database.ValidateKey(id); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	found, err := r.store.Get(ctx, database.Join(eventsPath(uid), id), &raw)
	if err != nil {
		return nil, storeErr("get event", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	event, err := decodeEvent(id, raw)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Append stores a new event under a generated, time-ordered key.
func (r *storeRecordRepo) Append(ctx context.Context, uid string, event models.ParkingEvent) (string, error) {
	if err := database.ValidateKey(uid); err != nil {
		return "", err
	}
	event.ID = ""
	id, err := r.store.Push(ctx, eventsPath(uid), event)
	if err != nil {
		return "", storeErr("append event", err)
	}
	return id, nil
}

// DeleteClosed removes one event if it has been closed. It reports false, without
// deleting, when the event is still open. Unreadable records count as closed once
// they carry a timeOut.
func (r *storeRecordRepo) DeleteClosed(ctx context.Context, uid, id string) (bool, error) {
	if err := database.ValidateKey(uid); err != nil {
		return false, err
	}
	if err := database.ValidateKey(id); err != nil {
		return false, err
	}
	path := database.Join(eventsPath(uid), id)
	var raw json.RawMessage
	found, err := r.store.Get(ctx, path, &raw)
	if err != nil {
		return false, storeErr("get event", err)
	}
	if !found {
		return false, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	if !rawClosed(raw) {
		return false, nil
	}
	if err := r.store.Delete(ctx, path); err != nil {
		return false, storeErr("delete event", err)
	}
	return true, nil
}

// ClearClosed removes every closed event, readable or not, in one transaction and
// returns how many were removed.
func (r *storeRecordRepo) ClearClosed(ctx context.Context, uid string) (int, error) {
	if err := database.ValidateKey(uid); err != nil {
		return 0, err
	}
	removed := 0
	err := r.store.Transaction(ctx, eventsPath(uid), func(current map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		removed = 0
		next := make(map[string]json.RawMessage, len(current))
		for key, raw := range current {
			if rawClosed(raw) {
				removed++
				continue
			}
			next[key] = raw
		}
		return next, nil
	})
	if err != nil {
		return 0, storeErr("clear events", err)
	}
	return removed, nil
}

// Modify rewrites the user's log inside a store transaction. fn sees only the
// readable events; unreadable records are kept as stored. Errors returned by fn
// come back unchanged; everything else is a store failure.
func (r *storeRecordRepo) Modify(ctx context.Context, uid string, fn ModifyFunc) error {
	if err := database.ValidateKey(uid); err != nil {
		return err
	}
	var fnErr error
	err := r.store.Transaction(ctx, eventsPath(uid), func(current map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		fnErr = nil
		keys := make([]string, 0, len(current))
		for k := range current {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		events := make([]models.ParkingEvent, 0, len(keys))
		unreadable := make(map[string]json.RawMessage)
		for _, k := range keys {
			event, err := decodeEvent(k, current[k])
			if err != nil {
				skipInvalid(uid, k, err)
				unreadable[k] = current[k]
				continue
			}
			events = append(events, event)
		}

		updated, err := fn(events)
		if err != nil {
			fnErr = err
			return nil, err
		}

		next := make(map[string]json.RawMessage, len(updated)+len(unreadable))
		for k, raw := range unreadable {
			next[k] = raw
		}
		for _, event := range updated {
			if err := event.Validate(); err != nil {
				fnErr = err
				return nil, err
			}
			id := event.ID
			event.ID = ""
			raw, err := json.Marshal(event)
			if err != nil {
				fnErr = err
				return nil, err
			}
			next[id] = raw
		}
		return next, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return storeErr("modify events", err)
	}
	return nil
}
