// Package drafts keeps the in-progress state of multi-step wizards between
// requests. A draft is a flat map of field name to JSON value, scoped by
// wizard, user and the entity being edited.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("draft not found")

// NewEntity is the entity id used by wizards that create a record rather than
// edit an existing one.
const NewEntity = "new"

type Key struct {
	Wizard   string
	UserID   string
	EntityID string
}

func NewKey(wizard, userID, entityID string) Key {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		entityID = NewEntity
	}
	return Key{Wizard: wizard, UserID: userID, EntityID: entityID}
}

func (k Key) String() string {
	return k.Wizard + ":" + k.UserID + ":" + k.EntityID
}

type Draft struct {
	Key       Key
	Fields    map[string]json.RawMessage
	UpdatedAt time.Time
}

func (d *Draft) Has(name string) bool {
	v, ok := d.Fields[name]
	return ok && len(v) > 0 && string(v) != "null"
}

// Decode unmarshals a single field. It reports false when the field is absent.
func (d *Draft) Decode(name string, v any) (bool, error) {
	if !d.Has(name) {
		return false, nil
	}
	if err := json.Unmarshal(d.Fields[name], v); err != nil {
		return true, fmt.Errorf("field %s: %w", name, err)
	}
	return true, nil
}

// DecodeInto unmarshals all fields into a struct whose json tags name draft
// fields. Absent fields keep their zero value.
func (d *Draft) DecodeInto(v any) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Store persists drafts. Save merges the given fields into whatever is
// already stored; it never drops fields it was not given.
type Store interface {
	Load(ctx context.Context, key Key) (*Draft, error)
	Save(ctx context.Context, key Key, fields map[string]json.RawMessage) error
	Clear(ctx context.Context, key Key) error
	// Ping reports whether the backend can currently be reached.
	Ping(ctx context.Context) error
}

// decodePayload turns a stored payload into a Draft. Anything unparseable is
// reported as ErrNotFound so callers restart the wizard instead of failing.
func decodePayload(key Key, payload []byte, updatedAt time.Time) (*Draft, error) {
	if len(payload) == 0 {
		return nil, ErrNotFound
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, ErrNotFound
	}
	if fields == nil {
		return nil, ErrNotFound
	}
	return &Draft{Key: key, Fields: fields, UpdatedAt: updatedAt}, nil
}

func mergeFields(existing, update map[string]json.RawMessage) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(existing)+len(update))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}
	return merged
}

func validFields(fields map[string]json.RawMessage) error {
	for name, v := range fields {
		if !json.Valid(v) {
			return fmt.Errorf("field %s is not valid JSON", name)
		}
	}
	return nil
}
